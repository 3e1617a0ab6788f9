package data

import (
	"database/sql"

	"github.com/go-kratos/kratos/v2/log"
	_ "github.com/lib/pq"

	"github.com/fbvsig/opinion_radar/app/display/internal/conf"
)

type Data struct {
	db *sql.DB
}

func NewData(c *conf.Data, logger log.Logger) (*Data, func(), error) {
	db, err := sql.Open(c.Database.Driver, c.Database.Source)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		log.NewHelper(logger).Info("closing the data resources")
		db.Close()
	}
	return &Data{db: db}, cleanup, nil
}
