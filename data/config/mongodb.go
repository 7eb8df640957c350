package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// MongoDB mongodb config struct
type MongoDB struct {
	Master   *MongoNode   `json:"master"`
	Slaves   []*MongoNode `json:"slaves"`
	Strategy string       `json:"strategy"`
	Database string       `json:"database"`
}

// MongoNode mongodb node config
type MongoNode struct {
	URI     string `json:"uri"`
	Logging bool   `json:"logging"`
	Weight  int    `json:"weight"`
}

// getMongoDBConfigs reads MongoDB configurations
func getMongoDBConfigs(v *viper.Viper) *MongoDB {
	return &MongoDB{
		Master: &MongoNode{
			URI:     v.GetString("data.mongodb.master.uri"),
			Logging: v.GetBool("data.mongodb.master.logging"),
		},
		Slaves:   getMongoSlaveConfigs(v),
		Strategy: v.GetString("data.mongodb.strategy"),
		Database: getStringOrDefault(v, "data.mongodb.database", "keyset"),
	}
}

// getMongoSlaveConfigs reads MongoDB slave configurations
func getMongoSlaveConfigs(v *viper.Viper) []*MongoNode {
	var slaves []*MongoNode

	slavesInterface, ok := v.Get("data.mongodb.slaves").([]any)
	if !ok {
		return slaves
	}

	for i := range slavesInterface {
		slave := &MongoNode{
			URI:     v.GetString(fmt.Sprintf("data.mongodb.slaves.%d.uri", i)),
			Logging: v.GetBool(fmt.Sprintf("data.mongodb.slaves.%d.logging", i)),
			Weight:  v.GetInt(fmt.Sprintf("data.mongodb.slaves.%d.weight", i)),
		}

		if slave.URI != "" {
			if slave.Weight <= 0 {
				slave.Weight = 1
			}
			slaves = append(slaves, slave)
		}
	}

	return slaves
}
