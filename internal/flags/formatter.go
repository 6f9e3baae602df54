package flags

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// MonitoringFormatter renders log lines with the severity prefixes monitoring
// systems expect: "Info:", "Warning:", "Critical:" and "Debug:". It is the
// default console format so that every line of output reads like a check
// result.
type MonitoringFormatter struct{}

// Format renders one log entry as "<Prefix> message key=value ...\n".
func (f *MonitoringFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var builder strings.Builder

	builder.WriteString(levelPrefix(entry.Level))
	builder.WriteByte(' ')
	builder.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for key := range entry.Data {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		fmt.Fprintf(&builder, " %s=%v", key, entry.Data[key])
	}

	builder.WriteByte('\n')

	return []byte(builder.String()), nil
}

// levelPrefix maps logrus levels onto monitoring severity prefixes.
func levelPrefix(level logrus.Level) string {
	switch level {
	case logrus.TraceLevel, logrus.DebugLevel:
		return "Debug:"
	case logrus.InfoLevel:
		return "Info:"
	case logrus.WarnLevel:
		return "Warning:"
	default:
		return "Critical:"
	}
}
