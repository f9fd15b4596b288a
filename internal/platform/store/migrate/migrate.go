// Package migrate applies the embedded Postgres schema with golang-migrate
package migrate

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	perr "insightbff/internal/platform/errors"
	"insightbff/internal/platform/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // registers pgx5://
	"github.com/golang-migrate/migrate/v4/source/httpfs"
)

// LatestVersion is the newest schema version shipped in sql/
// Bump it with every new migration pair
const LatestVersion uint = 2

//go:embed sql/*.sql
var files embed.FS

// ErrDowngrade is returned when the database is newer than this binary
var ErrDowngrade = errors.New("database downgrade detected")

// Target moves a migrate instance to the wanted version
type Target func(m *migrate.Migrate) error

var (
	// TargetLatest applies every pending up migration
	TargetLatest Target = func(m *migrate.Migrate) error { return m.Up() }

	// TargetVersion migrates up or down to v
	TargetVersion = func(v uint) Target {
		return func(m *migrate.Migrate) error { return m.Migrate(v) }
	}
)

// Result reports the schema version before and after a run
type Result struct {
	From  uint
	To    uint
	Dirty bool
}

// Files exposes the embedded migrations
func Files() fs.FS { return files }

// Up migrates dbURL to the latest version
func Up(dbURL string, log logger.Logger) (Result, error) {
	return Apply(dbURL, TargetLatest, log)
}

// Apply runs target against dbURL, refusing dirty schemas and downgrades
func Apply(dbURL string, target Target, log logger.Logger) (Result, error) {
	src, err := httpfs.New(http.FS(files), "sql")
	if err != nil {
		return Result{}, perr.Wrapf(err, perr.ErrorCodeUnknown, "migrate: open embedded source")
	}
	m, err := migrate.NewWithSourceInstance("migrations", src, DriverURL(dbURL))
	if err != nil {
		return Result{}, perr.Wrapf(err, perr.ErrorCodeUnavailable, "migrate: connect")
	}
	defer func() { _, _ = m.Close() }()

	from, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return Result{}, perr.Wrapf(err, perr.ErrorCodeDB, "migrate: read version")
	}
	if dirty {
		return Result{From: from, To: from, Dirty: true},
			fmt.Errorf("migrate: database is dirty at version %d, manual intervention required", from)
	}
	if from > LatestVersion {
		return Result{From: from, To: from},
			fmt.Errorf("%w: db_version=%d latest=%d", ErrDowngrade, from, LatestVersion)
	}

	log.Info().Uint("current_version", from).Uint("latest_version", LatestVersion).Msg("applying migrations")
	m.Log = &migrationLogger{log: log}

	if err := target(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return Result{From: from}, perr.Wrapf(err, perr.ErrorCodeDB, "migrate: apply")
	}

	to, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return Result{From: from}, perr.Wrapf(err, perr.ErrorCodeDB, "migrate: read version")
	}
	log.Info().Uint("version", to).Msg("migrations done")
	return Result{From: from, To: to, Dirty: dirty}, nil
}

// DriverURL rewrites a postgres URL to the pgx5 scheme golang-migrate expects
func DriverURL(dbURL string) string {
	for _, p := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(dbURL, p) {
			return "pgx5://" + strings.TrimPrefix(dbURL, p)
		}
	}
	return dbURL
}

type migrationLogger struct{ log logger.Logger }

func (m *migrationLogger) Printf(format string, v ...any) {
	m.log.Info().Msg(strings.TrimRight(fmt.Sprintf(format, v...), "\n"))
}

func (m *migrationLogger) Verbose() bool { return false }
