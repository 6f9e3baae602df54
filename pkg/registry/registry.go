// Package registry resolves pull credentials for image fetches, first from
// the REPO_USER/REPO_PASS environment variables and then from the Docker
// config file's credential store.
package registry

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/distribution/reference"
	"github.com/sirupsen/logrus"

	dockerCliConfig "github.com/docker/cli/cli/config"
	dockerConfigConfigfile "github.com/docker/cli/cli/config/configfile"
	dockerConfigCredentials "github.com/docker/cli/cli/config/credentials"
	dockerConfigTypes "github.com/docker/cli/cli/config/types"
	dockerImageType "github.com/docker/docker/api/types/image"
)

// Errors for registry authentication operations.
var (
	// errUnsetRegAuthVars indicates registry auth environment variables (REPO_USER, REPO_PASS) are not set.
	errUnsetRegAuthVars = errors.New(
		"registry auth environment variables (REPO_USER, REPO_PASS) not set",
	)
	// errParseImageRef indicates a failure to parse an image reference.
	errParseImageRef = errors.New("failed to parse image reference")
	// errFailedLoadDockerConfig indicates a failure to load the Docker configuration file.
	errFailedLoadDockerConfig = errors.New("failed to load Docker config")
	// errFailedMarshalAuthConfig indicates a failure to marshal the auth config to JSON.
	errFailedMarshalAuthConfig = errors.New("failed to marshal auth config to JSON")
)

// GetPullOptions creates pull options for an image reference, including
// encoded credentials when any can be resolved. An image with no credentials
// pulls anonymously.
func GetPullOptions(imageRef string) (dockerImageType.PullOptions, error) {
	auth, err := EncodedAuth(imageRef)
	if err != nil {
		return dockerImageType.PullOptions{}, err
	}

	if auth == "" {
		logrus.WithField("image", imageRef).Debug("No pull credentials found")

		return dockerImageType.PullOptions{}, nil
	}

	return dockerImageType.PullOptions{
		RegistryAuth:  auth,
		PrivilegeFunc: defaultAuthHandler,
	}, nil
}

// defaultAuthHandler is invoked when the initial authentication is rejected.
// Retrying with the same credentials is pointless, so the retry goes
// unauthenticated.
func defaultAuthHandler(_ context.Context) (string, error) {
	logrus.Debug("Authentication rejected, retrying without credentials")

	return "", nil
}

// EncodedAuth resolves encoded credentials for an image reference, checking
// the environment first and the Docker config file second.
func EncodedAuth(imageRef string) (string, error) {
	auth, err := encodedEnvAuth()
	if err != nil {
		logrus.WithField("image", imageRef).
			Debug("Environment auth not available, trying config file")

		auth, err = encodedConfigAuth(imageRef)
	}

	return auth, err
}

// encodedEnvAuth builds credentials from REPO_USER and REPO_PASS.
func encodedEnvAuth() (string, error) {
	username := os.Getenv("REPO_USER")
	password := os.Getenv("REPO_PASS")

	if username == "" || password == "" {
		return "", errUnsetRegAuthVars
	}

	return encodeAuth(dockerConfigTypes.AuthConfig{
		Username: username,
		Password: password,
	})
}

// encodedConfigAuth looks the image's registry up in the Docker config file's
// credential store. Missing credentials are not an error.
func encodedConfigAuth(imageRef string) (string, error) {
	server, err := registryAddress(imageRef)
	if err != nil {
		return "", err
	}

	configDir := os.Getenv("DOCKER_CONFIG")

	configFile, err := dockerCliConfig.Load(configDir)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errFailedLoadDockerConfig, err)
	}

	credStore := credentialsStore(*configFile)

	auth, _ := credStore.Get(server)
	if auth == (dockerConfigTypes.AuthConfig{}) {
		logrus.WithFields(logrus.Fields{
			"image":  imageRef,
			"server": server,
		}).Debug("No credentials found in Docker config")

		return "", nil
	}

	logrus.WithFields(logrus.Fields{
		"username": auth.Username,
		"server":   server,
	}).Debug("Loaded pull credentials from Docker config")

	return encodeAuth(auth)
}

// credentialsStore returns the credential store configured in the Docker
// config file, native when one is set and file-based otherwise.
func credentialsStore(configFile dockerConfigConfigfile.ConfigFile) dockerConfigCredentials.Store {
	if configFile.CredentialsStore != "" {
		return dockerConfigCredentials.NewNativeStore(&configFile, configFile.CredentialsStore)
	}

	return dockerConfigCredentials.NewFileStore(&configFile)
}

// registryAddress extracts the registry host from an image reference.
func registryAddress(imageRef string) (string, error) {
	normalized, err := reference.ParseNormalizedNamed(imageRef)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", errParseImageRef, imageRef, err)
	}

	return reference.Domain(normalized), nil
}

// encodeAuth base64-encodes an AuthConfig for transmission over HTTP.
func encodeAuth(authConfig dockerConfigTypes.AuthConfig) (string, error) {
	buf, err := json.Marshal(authConfig)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errFailedMarshalAuthConfig, err)
	}

	return base64.URLEncoding.EncodeToString(buf), nil
}
