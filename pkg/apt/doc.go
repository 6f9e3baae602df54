// Package apt implements the package upgrade prober for apt-family images.
// All parsing of apt-get and unattended-upgrade free-text output lives here;
// the decision engine only ever sees the typed results.
package apt
