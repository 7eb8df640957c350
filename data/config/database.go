package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Database database config struct
type Database struct {
	Master   *DBNode   `json:"master" yaml:"master"`
	Slaves   []*DBNode `json:"slaves" yaml:"slaves"`
	Migrate  bool      `json:"migrate" yaml:"migrate"`
	Strategy string    `json:"strategy" yaml:"strategy"`
}

// DBNode represents a single database node configuration
type DBNode struct {
	Source          string        `json:"source" yaml:"source"`
	Logging         bool          `json:"logging" yaml:"logging"`
	MaxIdleConn     int           `json:"max_idle_conn" yaml:"max_idle_conn"`
	MaxOpenConn     int           `json:"max_open_conn" yaml:"max_open_conn"`
	ConnMaxLifeTime time.Duration `json:"conn_max_life_time" yaml:"conn_max_life_time"`
	Weight          int           `json:"weight" yaml:"weight"`
}

// getDatabaseConfig reads database configurations
func getDatabaseConfig(v *viper.Viper) *Database {
	return &Database{
		Master:   getDBNode(v, "data.database.master"),
		Slaves:   getSlaveConfigs(v),
		Migrate:  getBoolOrDefault(v, "data.database.migrate", true),
		Strategy: v.GetString("data.database.strategy"),
	}
}

// getDBNode reads one database node under prefix
func getDBNode(v *viper.Viper, prefix string) *DBNode {
	return &DBNode{
		Source:          v.GetString(prefix + ".source"),
		Logging:         v.GetBool(prefix + ".logging"),
		MaxIdleConn:     getIntOrDefault(v, prefix+".max_idle_conn", 2),
		MaxOpenConn:     getIntOrDefault(v, prefix+".max_open_conn", 10),
		ConnMaxLifeTime: v.GetDuration(prefix + ".max_life_time"),
		Weight:          getIntOrDefault(v, prefix+".weight", 1),
	}
}

// getSlaveConfigs reads slave database configurations
func getSlaveConfigs(v *viper.Viper) []*DBNode {
	var slaves []*DBNode

	slavesList, ok := v.Get("data.database.slaves").([]any)
	if !ok {
		return slaves
	}

	for i := range slavesList {
		slave := getDBNode(v, fmt.Sprintf("data.database.slaves.%d", i))
		if slave.Source != "" {
			slaves = append(slaves, slave)
		}
	}
	return slaves
}
