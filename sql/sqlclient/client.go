// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Package sqlclient opens table inspectors by their database URL.
// Dialects register themselves by their URL scheme.
package sqlclient

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/url"
	"sync"
)

type (
	// Inspector returns the raw clauses of the tables in a database.
	Inspector interface {
		// TableNames returns the names of the tables in the connected schema.
		TableNames(ctx context.Context) ([]string, error)
		// Clauses returns the column, index and constraint clauses of
		// the given table in their definition order.
		Clauses(ctx context.Context, table string) ([]string, error)
	}

	// Client holds an open database connection along with the
	// dialect inspector that is attached to it.
	Client struct {
		// DB used for creating the client.
		DB *sql.DB
		Inspector
	}
)

// Close closes the underlying database connection and the inspector
// in case it implements the io.Closer interface.
func (c *Client) Close() (err error) {
	if c, ok := c.Inspector.(io.Closer); ok {
		err = c.Close()
	}
	if cerr := c.DB.Close(); cerr != nil {
		if err != nil {
			cerr = fmt.Errorf("%w: %v", err, cerr)
		}
		err = cerr
	}
	return err
}

type (
	// Opener opens a client by the given URL.
	Opener interface {
		Open(ctx context.Context, u *url.URL) (*Client, error)
	}

	// OpenerFunc allows using a function as an Opener.
	OpenerFunc func(context.Context, *url.URL) (*Client, error)
)

// Open calls f(ctx, u).
func (f OpenerFunc) Open(ctx context.Context, u *url.URL) (*Client, error) {
	return f(ctx, u)
}

var drivers sync.Map

// Open opens a client by its provided url string.
func Open(ctx context.Context, s string) (*Client, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("sql/sqlclient: parse open url: %w", err)
	}
	v, ok := drivers.Load(u.Scheme)
	if !ok {
		return nil, fmt.Errorf("sql/sqlclient: no opener was register with name %q", u.Scheme)
	}
	return v.(Opener).Open(ctx, u)
}

type (
	registerOptions struct {
		flavours []string
	}
	// RegisterOption allows configuring the Opener
	// registration using functional options.
	RegisterOption func(*registerOptions)
)

// RegisterFlavours allows registering additional flavours
// (i.e. names), accepted to open clients.
func RegisterFlavours(flavours ...string) RegisterOption {
	return func(opts *registerOptions) {
		opts.flavours = flavours
	}
}

// DriverOpener is a helper Opener creator for sharing between all drivers.
// The driver argument is the database/sql driver name to open the DSN with.
func DriverOpener(driver string, open func(*sql.DB) (Inspector, error), dsn func(*url.URL) (string, error)) Opener {
	return OpenerFunc(func(ctx context.Context, u *url.URL) (*Client, error) {
		s, err := dsn(u)
		if err != nil {
			return nil, err
		}
		db, err := sql.Open(driver, s)
		if err != nil {
			return nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			if cerr := db.Close(); cerr != nil {
				err = fmt.Errorf("%w: %v", err, cerr)
			}
			return nil, err
		}
		insp, err := open(db)
		if err != nil {
			if cerr := db.Close(); cerr != nil {
				err = fmt.Errorf("%w: %v", err, cerr)
			}
			return nil, err
		}
		return &Client{DB: db, Inspector: insp}, nil
	})
}

// Register registers a client Opener (i.e. creator) with the given name.
func Register(name string, opener Opener, opts ...RegisterOption) {
	if opener == nil {
		panic("sql/sqlclient: Register opener is nil")
	}
	opt := &registerOptions{}
	for i := range opts {
		opts[i](opt)
	}
	for _, f := range append(opt.flavours, name) {
		if _, ok := drivers.Load(f); ok {
			panic("sql/sqlclient: Register called twice for " + f)
		}
		drivers.Store(f, opener)
	}
}
