// Package log add logging utilities.
package log

import (
	"strings"
	"time"

	"rpcg/api/rpcgpb"

	"github.com/sirupsen/logrus"
)

// SetLogger sets the default logger's level.
func SetLogger(level string) {
	customFormatter := new(logrus.TextFormatter)
	customFormatter.TimestampFormat = time.RFC3339
	customFormatter.FullTimestamp = true
	logrus.SetFormatter(customFormatter)
	switch strings.ToLower(level) {
	case "trace":
		logrus.SetLevel(logrus.TraceLevel)
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
	case "info":
		logrus.SetLevel(logrus.InfoLevel)
	case "warn":
		logrus.SetLevel(logrus.WarnLevel)
	case "error":
		logrus.SetLevel(logrus.ErrorLevel)
	default:
		logrus.SetLevel(logrus.ErrorLevel)
	}
}

func TryRequestToFields(msg *rpcgpb.TryRequest) logrus.Fields {
	return logrus.Fields{
		"serial": msg.Serial,
		"name":   msg.Name,
		"count":  msg.Count,
	}
}

// BatchToFields describes a batch by its id and serial range.
func BatchToFields(id uint64, serials []uint64) logrus.Fields {
	fields := logrus.Fields{
		"batch": id,
		"size":  len(serials),
	}
	if len(serials) > 0 {
		fields["first"] = serials[0]
		fields["last"] = serials[len(serials)-1]
	}
	return fields
}

func DoneResponseToFields(msg *rpcgpb.DoneResponse) logrus.Fields {
	return logrus.Fields{
		"client_checksum": msg.ClientChecksum,
		"server_checksum": msg.ServerChecksum,
	}
}
