// Package modkit provides module wiring and core deps
package modkit

import (
	"insightbff/internal/modkit/repokit"
	"insightbff/internal/platform/config"
	"insightbff/internal/platform/logger"
	"insightbff/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// storage seams stay nil when their backend is disabled
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
	KV  store.KV
}

// FromStore fills the storage seams from an opened store; nil leaves them empty
func FromStore(st *store.Store, cfg config.Conf, log logger.Logger) Deps {
	d := Deps{Log: log, Cfg: cfg}
	if st == nil {
		return d
	}
	d.PG, d.CH, d.KV = st.PG, st.CH, st.KV
	return d
}
