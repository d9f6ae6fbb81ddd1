package db

import (
	"fmt"
	"math/rand"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/zan8in/gologger"
	snowflake "github.com/zan8in/pins/snowflake"
)

// Result is one probed address and port pair of a scan task.
type Result struct {
	Target    string `json:"target"`
	IP        string `json:"ip"`
	Hostname  string `json:"hostname,omitempty"`
	Port      int    `json:"port"`
	Service   string `json:"service"`
	State     string `json:"state"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

// ResultData is one scan_results row.
type ResultData struct {
	ID        int64  `db:"id"`
	TaskID    string `db:"taskid"`
	Target    string `db:"target"`
	IP        string `db:"ip"`
	Hostname  string `db:"hostname"`
	Port      int    `db:"port"`
	Service   string `db:"service"`
	State     string `db:"state"`
	ElapsedMs int64  `db:"elapsed_ms"`
	Created   string `db:"created"`
}

var (
	LIMIT        = "100"
	DBName       = "netscan"
	TableName    = "scan_results"
	SqliteCreate = `CREATE TABLE IF NOT EXISTS "scan_results" (
		"id" INTEGER NOT NULL DEFAULT '',
		"taskid" text NOT NULL DEFAULT '',
		"target" TEXT NOT NULL DEFAULT '',
		"ip" TEXT NOT NULL DEFAULT '',
		"hostname" TEXT NOT NULL DEFAULT '',
		"port" INTEGER NOT NULL DEFAULT 0,
		"service" TEXT NOT NULL DEFAULT '',
		"state" TEXT NOT NULL DEFAULT '',
		"elapsed_ms" INTEGER NOT NULL DEFAULT 0,
		"created" TEXT NOT NULL DEFAULT '',
		PRIMARY KEY ("id")
	  );

	  CREATE INDEX "idx_taskid"
		ON "scan_results" (
		"taskid" ASC
	  );

	  CREATE INDEX "idx_ip"
	  ON "scan_results" (
		"ip"
	  );

	  CREATE INDEX "idx_state"
	  ON "scan_results" (
		"state"
	  );`

	TaskID string

	// DBPath overrides the database location when set.
	DBPath string
)

var SnowFlake *snowflake.Snowflake

func init() {
	TaskID = createTaskID()
	if err := NewSnowFlake(); err != nil {
		gologger.Fatal().Msgf("New SnowFlake failed: %v", err)
	}
}

func createTaskID() string {
	timestamp := time.Now().UnixNano()
	source := rand.NewSource(time.Now().UnixNano())
	randomGenerator := rand.New(source)
	randomNum := randomGenerator.Intn(10000)
	taskID := fmt.Sprintf("%d%d", timestamp, randomNum)
	return taskID
}

func DbName() string {
	if len(DBPath) > 0 {
		return DBPath
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	path := path.Join(homeDir, ".config", "netscan")
	if err := os.MkdirAll(path, os.ModePerm); err != nil {
		return ""
	}

	return filepath.Join(path, DBName+".db")
}

func NewSnowFlake() error {
	if node, err := snowflake.NewSnowflake(1); err != nil {
		return err
	} else {
		SnowFlake = node
		return nil
	}
}
