package stores

import (
	"os"

	"github.com/sirupsen/logrus"

	"webinar-relay/core"
	"webinar-relay/stores/memory"
	"webinar-relay/stores/sqlite"
)

func GetStore() core.WebinarStore {
	storageType := os.Getenv("STORAGE_TYPE")
	var store core.WebinarStore

	storageField := logrus.Fields{
		"storageType": storageType,
	}

	switch storageType {
	case "sqlite":
		dataSourceName := os.Getenv("DATA_SOURCE_NAME")
		storageField["dataSourceName"] = dataSourceName
		store = sqlite.NewWebinarStore(dataSourceName)
	default:
		store = memory.NewWebinarStore()
		storageField["storageType"] = "in-memory"
	}
	logrus.WithFields(storageField).Info("Use storage")
	return store
}
