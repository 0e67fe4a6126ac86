// internal/erp/gateway.go
package erp

import (
	"context"
	"sync"
	"time"

	"workorder-assistant/internal/common/config"
	"workorder-assistant/internal/common/errors"
	"workorder-assistant/internal/common/logger"
	"workorder-assistant/internal/common/metrics"
)

// Gateway is the read surface over ERP resources. Search returns record
// IDs matching a domain filter; Read hydrates the requested fields.
type Gateway interface {
	Authenticate(ctx context.Context) error
	Search(ctx context.Context, resource string, domain []interface{}) ([]int64, error)
	Read(ctx context.Context, resource string, ids []int64, fields []string) ([]Record, error)
}

// Client implements Gateway against an Odoo-style JSON-RPC endpoint.
type Client struct {
	cfg config.OdooConfig
	rpc *rpcClient
	log logger.Logger

	mu  sync.Mutex
	uid int64
}

func NewClient(cfg config.OdooConfig, log logger.Logger) *Client {
	return &Client{
		cfg: cfg,
		rpc: newRPCClient(cfg.URL, time.Duration(cfg.Timeout)*time.Millisecond),
		log: log,
	}
}

// Authenticate resolves the configured credentials to a server-side user ID.
// A zero or false result means the credentials were rejected.
func (c *Client) Authenticate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authenticateLocked(ctx)
}

func (c *Client) authenticateLocked(ctx context.Context) error {
	var result interface{}
	err := c.rpc.call(ctx, "common", "authenticate", []interface{}{
		c.cfg.Database, c.cfg.Username, c.cfg.Password, map[string]interface{}{},
	}, &result)
	if err != nil {
		c.log.WithError(err).Error("erp authentication call failed", nil)
		return errors.NewUpstreamFailureError("common.authenticate", err)
	}

	// Odoo returns false (not an error) on bad credentials.
	uid, ok := result.(float64)
	if !ok || uid <= 0 {
		c.log.Error("erp authentication rejected", map[string]interface{}{
			"database": c.cfg.Database,
			"username": c.cfg.Username,
		})
		return errors.NewAuthFailureError("credentials rejected by ERP")
	}

	c.uid = int64(uid)
	c.log.Info("erp session established", map[string]interface{}{
		"uid":      c.uid,
		"database": c.cfg.Database,
	})
	return nil
}

// ensureAuthenticated lazily authenticates on first use. Concurrent
// callers serialize on the mutex so only one login round-trip happens.
func (c *Client) ensureAuthenticated(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.uid > 0 {
		return c.uid, nil
	}
	if err := c.authenticateLocked(ctx); err != nil {
		return 0, err
	}
	return c.uid, nil
}

// Search returns the IDs of records matching the domain filter.
func (c *Client) Search(ctx context.Context, resource string, domain []interface{}) ([]int64, error) {
	uid, err := c.ensureAuthenticated(ctx)
	if err != nil {
		return nil, err
	}

	metrics.ErpCalls.WithLabelValues(resource, "search").Inc()

	var ids []int64
	err = c.rpc.call(ctx, "object", "execute_kw", []interface{}{
		c.cfg.Database, uid, c.cfg.Password,
		resource, "search", []interface{}{domain},
	}, &ids)
	if err != nil {
		if !c.sessionLost(err) {
			return nil, errors.NewUpstreamFailureError(resource, err)
		}
		uid, err = c.ensureAuthenticated(ctx)
		if err != nil {
			return nil, err
		}
		err = c.rpc.call(ctx, "object", "execute_kw", []interface{}{
			c.cfg.Database, uid, c.cfg.Password,
			resource, "search", []interface{}{domain},
		}, &ids)
		if err != nil {
			return nil, errors.NewUpstreamFailureError(resource, err)
		}
	}
	return ids, nil
}

// Read hydrates the named fields for the given record IDs.
func (c *Client) Read(ctx context.Context, resource string, ids []int64, fields []string) ([]Record, error) {
	uid, err := c.ensureAuthenticated(ctx)
	if err != nil {
		return nil, err
	}

	metrics.ErpCalls.WithLabelValues(resource, "read").Inc()

	var records []Record
	err = c.rpc.call(ctx, "object", "execute_kw", []interface{}{
		c.cfg.Database, uid, c.cfg.Password,
		resource, "read", []interface{}{ids},
		map[string]interface{}{"fields": fields},
	}, &records)
	if err != nil {
		if !c.sessionLost(err) {
			return nil, errors.NewUpstreamFailureError(resource, err)
		}
		uid, err = c.ensureAuthenticated(ctx)
		if err != nil {
			return nil, err
		}
		err = c.rpc.call(ctx, "object", "execute_kw", []interface{}{
			c.cfg.Database, uid, c.cfg.Password,
			resource, "read", []interface{}{ids},
			map[string]interface{}{"fields": fields},
		}, &records)
		if err != nil {
			return nil, errors.NewUpstreamFailureError(resource, err)
		}
	}
	return records, nil
}

// sessionLost reports whether the server invalidated our session. When it
// did, the cached uid is dropped so the caller's retry re-authenticates.
func (c *Client) sessionLost(err error) bool {
	rpcErr, ok := err.(*rpcError)
	if !ok || rpcErr.Code != 100 {
		return false
	}

	c.log.Warn("erp session expired, re-authenticating", nil)
	c.mu.Lock()
	c.uid = 0
	c.mu.Unlock()
	return true
}
