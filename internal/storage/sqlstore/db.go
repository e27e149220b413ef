package sqlstore

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/jmoiron/sqlx"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"

	pingTimeout = 10 * time.Second
)

// Options describes how to reach the relational store. Credentials come from
// configuration only.
type Options struct {
	Driver          string
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN returns the database/sql driver name and connection string for o.
func DSN(o Options) (driverName, dsn string, err error) {
	hostPort := net.JoinHostPort(o.Host, strconv.Itoa(o.Port))
	switch o.Driver {
	case DriverPostgres:
		sslMode := o.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(o.User, o.Password),
			Host:     hostPort,
			Path:     "/" + o.Name,
			RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
		}
		return "pgx", u.String(), nil
	case DriverMySQL:
		c := mysql.NewConfig()
		c.User = o.User
		c.Passwd = o.Password
		c.Net = "tcp"
		c.Addr = hostPort
		c.DBName = o.Name
		c.ParseTime = true
		c.Loc = time.UTC
		c.Params = map[string]string{"charset": "utf8mb4"}
		return "mysql", c.FormatDSN(), nil
	default:
		return "", "", fmt.Errorf("unsupported driver %q", o.Driver)
	}
}

// Connect opens the shared pool and pings it so start-up fails fast when the
// store is unreachable. Connections are checked out per statement by
// database/sql and returned when the statement (or its rows) completes.
func Connect(ctx context.Context, o Options) (*sqlx.DB, error) {
	driverName, dsn, err := DSN(o)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", o.Driver, err)
	}
	if o.MaxOpenConns > 0 {
		db.SetMaxOpenConns(o.MaxOpenConns)
	}
	if o.MaxIdleConns > 0 {
		db.SetMaxIdleConns(o.MaxIdleConns)
	}
	if o.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(o.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", o.Driver, err)
	}
	return db, nil
}
