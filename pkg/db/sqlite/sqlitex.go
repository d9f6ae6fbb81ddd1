package sqlite

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/logoove/sqlite"
	"github.com/zan8in/gologger"
	db2 "github.com/zan8in/netscan/pkg/db"
	randutil "github.com/zan8in/pins/rand"
)

var dbx *sqlx.DB
var insertChannel chan *db2.Result
var wg sync.WaitGroup

// 可根据实际负载调整
var workerCount = 4

func InitX() error {

	// 使用带缓冲通道，避免生产者阻塞
	insertChannel = make(chan *db2.Result, 1024)

	// 启动固定数量的 worker，避免无界并发写入导致 database is locked
	wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go saveToDatabaseX()
	}

	return nil
}

func SetResultX(result *db2.Result) {
	insertChannel <- result
}

func saveToDatabaseX() {
	defer wg.Done()

	for r := range insertChannel {
		c := 0
		for {
			if err := addx(r); err != nil {
				if strings.Contains(err.Error(), "database is locked") && c < 5 {
					c++
					randutil.RandSleep(1000)
					continue
				}
				gologger.Error().Msgf("Error inserting result into database: %v\n", err)
			}
			break
		}
	}
}

func NewSqliteDB() error {
	// 初始化数据库连接（增加 busy_timeout，开启 WAL）
	// 备注：logoove/sqlite 驱动使用名为 sqlite3 的驱动注册
	dsn := "file:" + db2.DbName() + "?cache=shared&mode=rwc&_journal_mode=WAL&_busy_timeout=5000"
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return err
	}
	dbx = db

	// sqlite 通常建议较小的连接数；WAL 下单连接最稳妥
	dbx.SetMaxOpenConns(1)
	dbx.SetMaxIdleConns(1)

	_, err = dbx.Exec(db2.SqliteCreate)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		return fmt.Errorf("error creating table: %v", err)
	}

	return dbx.Ping()
}

func CloseX() {
	// 安全关闭任务通道并等待 worker 退出
	if insertChannel != nil {
		close(insertChannel)
		insertChannel = nil
	}

	wg.Wait()

	if dbx != nil {
		dbx.Close()
	}
}

func addx(r *db2.Result) error {
	if dbx == nil {
		return fmt.Errorf("sqlite not initialized")
	}

	insertSQL := "INSERT INTO scan_results(id, taskid, target, ip, hostname, port, service, state, elapsed_ms, created) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

	currentTime := time.Now()
	createdTime := currentTime.Format("2006-01-02 15:04:05")

	// 为单次写入设置整体超时，防止长期阻塞
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := dbx.ExecContext(ctx, insertSQL, db2.SnowFlake.NextID(), db2.TaskID, r.Target, r.IP, r.Hostname, r.Port, r.Service, r.State, r.ElapsedMs, createdTime)
	return err
}

// SelectPage lists stored rows filtered by state and an ip/hostname
// keyword, newest first.
func SelectPage(state, keyword string, page, pageSize int) ([]db2.ResultData, error) {
	if dbx == nil {
		return nil, fmt.Errorf("sqlite not initialized")
	}
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 50
	}
	if pageSize > 500 {
		pageSize = 500
	}
	offset := (page - 1) * pageSize

	var where []string
	var args []interface{}

	kw := strings.TrimSpace(keyword)
	if kw != "" {
		where = append(where, "(ip LIKE ? OR hostname LIKE ? OR target LIKE ?)")
		args = append(args, "%"+kw+"%", "%"+kw+"%", "%"+kw+"%")
	}

	st := strings.TrimSpace(state)
	if st != "" {
		list := strings.Split(st, ",")
		var holders []string
		var vals []interface{}
		for _, s := range list {
			t := strings.ToLower(strings.TrimSpace(s))
			if t == "" {
				continue
			}
			holders = append(holders, "?")
			vals = append(vals, t)
		}
		// 3个或以上视为全选
		if len(holders) > 0 && len(holders) < 3 {
			where = append(where, "LOWER(state) IN ("+strings.Join(holders, ",")+")")
			args = append(args, vals...)
		}
	}

	query := "SELECT * FROM " + db2.TableName
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id DESC LIMIT " + strconv.Itoa(pageSize) + " OFFSET " + strconv.Itoa(offset)

	// 查询设置超时
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var data []db2.ResultData
	if err := dbx.SelectContext(ctx, &data, query, args...); err != nil {
		return nil, err
	}

	return data, nil
}

// GetByTaskID returns every row of one scan run, in insertion order.
func GetByTaskID(taskid string) ([]db2.ResultData, error) {
	if dbx == nil {
		return nil, fmt.Errorf("sqlite not initialized")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	q := "SELECT * FROM " + db2.TableName + " WHERE taskid = ? ORDER BY id ASC"

	var data []db2.ResultData
	if err := dbx.SelectContext(ctx, &data, q, taskid); err != nil {
		return nil, err
	}

	return data, nil
}

func Count() int64 {
	var count int64
	query := "SELECT COUNT(*) FROM " + db2.TableName

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := dbx.GetContext(ctx, &count, query)
	if err != nil {
		return 0
	}
	return count
}

func CountFiltered(state, keyword string) (int64, error) {
	if dbx == nil {
		return 0, fmt.Errorf("sqlite not initialized")
	}

	var where []string
	var args []interface{}

	kw := strings.TrimSpace(keyword)
	if kw != "" {
		where = append(where, "(ip LIKE ? OR hostname LIKE ? OR target LIKE ?)")
		args = append(args, "%"+kw+"%", "%"+kw+"%", "%"+kw+"%")
	}

	st := strings.TrimSpace(state)
	if st != "" {
		list := strings.Split(st, ",")
		var holders []string
		var vals []interface{}
		for _, s := range list {
			t := strings.ToLower(strings.TrimSpace(s))
			if t == "" {
				continue
			}
			holders = append(holders, "?")
			vals = append(vals, t)
		}
		// 如果传入的 state 值数量在 1~2 个之间，则做 IN 过滤；3 个或以上视为全选（不过滤）
		if len(holders) > 0 && len(holders) < 3 {
			where = append(where, "LOWER(state) IN ("+strings.Join(holders, ",")+")")
			args = append(args, vals...)
		}
	}

	q := "SELECT COUNT(*) FROM " + db2.TableName
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var count int64
	if err := dbx.GetContext(ctx, &count, q, args...); err != nil {
		return 0, err
	}
	return count, nil
}
