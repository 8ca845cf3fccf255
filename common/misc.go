package common

import (
	"os"

	"github.com/fundwit/go-commons/types"
	"github.com/sony/sonyflake"
)

var serviceName = "docflow"

// NewIdWorker builds the id generator. Sonyflake derives its machine id from
// the host's private IPv4 address and returns nil when there is none, so fall
// back to the pid in that case.
func NewIdWorker() *sonyflake.Sonyflake {
	idWorker := sonyflake.NewSonyflake(sonyflake.Settings{})
	if idWorker == nil {
		idWorker = sonyflake.NewSonyflake(sonyflake.Settings{
			MachineID: func() (uint16, error) {
				return uint16(os.Getpid()), nil
			},
		})
	}
	return idWorker
}

func NextId(idWorker *sonyflake.Sonyflake) types.ID {
	id, err := idWorker.NextID()
	if err != nil {
		panic(err)
	}
	return types.ID(id)
}

func GetServiceName() string {
	if name := os.Getenv("SERVICE_NAME"); name != "" {
		return name
	}
	return serviceName
}

func GetServiceInstance() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return hostname
}

type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}
