// Package providerpg serves configuration from a PostgreSQL settings table.
//
// The table holds one row per top-level key:
//
//	CREATE TABLE settings (key text PRIMARY KEY, value jsonb);
//
// Example:
//
//	pool, err := pgxpool.New(ctx, os.Getenv("DATABASE_URL"))
//	p := providerpg.New(pool, providerpg.Options{PathMode: true})
//	host, err := p.Get(ctx, "database.host")
package providerpg
