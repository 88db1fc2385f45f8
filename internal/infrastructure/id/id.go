package id

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node *snowflake.Node
	once sync.Once
)

// Init initializes the process-wide Snowflake node. Must be called once at
// startup before any ID is generated.
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// New returns a time-ordered unique int64. Within one process IDs are strictly
// increasing, which gives message ordering a stable tie-break when two
// messages share a timestamp.
func New() int64 {
	return node.Generate().Int64()
}
