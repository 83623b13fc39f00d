package goadjacent

import (
	"context"
	"database/sql/driver"
	"errors"
	"io"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newGORMMySQLMock() (string, *gorm.DB, sqlmock.Sqlmock, error) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		return "", nil, nil, err
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      mockDB,
		SkipInitializeWithVersion: true,
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return "", nil, nil, err
	}

	return "mysql", db.Debug(), mock, nil
}

func newGORMPostgresMock() (string, *gorm.DB, sqlmock.Sqlmock, error) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		return "", nil, nil, err
	}

	dialector := postgres.New(postgres.Config{
		Conn: mockDB,
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return "", nil, nil, err
	}

	return "postgres", db.Debug(), mock, nil
}

// tMessage is the fixture record used across tests.
type tMessage struct {
	ID      int64
	UserID  int64
	Created int64
	Score   *int64
}

var tMessageGetters = Getters[tMessage]{
	"id":      func(m tMessage) any { return m.ID },
	"user_id": func(m tMessage) any { return m.UserID },
	"created": func(m tMessage) any { return m.Created },
	"score":   func(m tMessage) any { return m.Score },
}

func score(v int64) *int64 {
	return &v
}

func newQuietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.DebugLevel)

	return logger
}

// tCountingDataset counts Find round-trips of the wrapped dataset.
type tCountingDataset[T any] struct {
	inner Dataset[T]
	finds *int
}

func newCountingDataset[T any](inner Dataset[T]) (*tCountingDataset[T], *int) {
	finds := new(int)
	return &tCountingDataset[T]{inner: inner, finds: finds}, finds
}

func (d *tCountingDataset[T]) Where(predicate Predicate) Dataset[T] {
	return &tCountingDataset[T]{inner: d.inner.Where(predicate), finds: d.finds}
}

func (d *tCountingDataset[T]) Order(orderings Orderings) Dataset[T] {
	return &tCountingDataset[T]{inner: d.inner.Order(orderings), finds: d.finds}
}

func (d *tCountingDataset[T]) Limit(limit int) Dataset[T] {
	return &tCountingDataset[T]{inner: d.inner.Limit(limit), finds: d.finds}
}

func (d *tCountingDataset[T]) Find(ctx context.Context) ([]T, error) {
	*d.finds++
	return d.inner.Find(ctx)
}

var errBrokenValuer = errors.New("broken valuer")

// tBrokenValuer is a driver.Valuer that always fails.
type tBrokenValuer struct{}

func (tBrokenValuer) Value() (driver.Value, error) {
	return nil, errBrokenValuer
}
