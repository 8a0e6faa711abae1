// ABOUTME: Charm KV client wrapper for trainer records with cloud sync.
// ABOUTME: Provides thread-safe initialization and type-prefixed key helpers.
package charm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/google/uuid"
	"github.com/harperreed/trainer/internal/storage"
)

const (
	// DBName is the Charm KV database holding trainer records.
	DBName    = "trainer"
	charmHost = "charm.2389.dev"

	ClientPrefix     = "client:"
	PlanPrefix       = "plan:"
	AssessmentPrefix = "assessment:"
	SessionPrefix    = "session:"
	ProgressPrefix   = "progress:"
)

// ErrReadOnly is returned for writes while another process holds the lock.
var ErrReadOnly = errors.New("cannot write: database is locked by another process (MCP server?)")

// kvStore is the subset of *kv.KV the client uses.
type kvStore interface {
	Keys() ([][]byte, error)
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	IsReadOnly() bool
	Sync() error
	Reset() error
	Close() error
}

var (
	globalClient *Client
	clientOnce   sync.Once
	clientErr    error
)

// Client stores trainer records in a Charm KV database.
type Client struct {
	kv       kvStore
	autoSync bool
	mu       sync.RWMutex
}

var _ storage.Repository = (*Client)(nil)

// InitClient initializes the global Charm client.
// Thread-safe; can be called multiple times.
func InitClient() (*Client, error) {
	clientOnce.Do(func() {
		if os.Getenv("CHARM_HOST") == "" {
			if err := os.Setenv("CHARM_HOST", charmHost); err != nil {
				clientErr = err
				return
			}
		}

		db, err := kv.OpenWithDefaultsFallback(DBName)
		if err != nil {
			clientErr = err
			return
		}

		globalClient = newClient(db, true)

		// Pull remote data on startup (skip in read-only mode)
		if !db.IsReadOnly() {
			_ = db.Sync()
		}
	})

	return globalClient, clientErr
}

// GetClient returns the global client, initializing if needed.
func GetClient() (*Client, error) {
	return InitClient()
}

func newClient(store kvStore, autoSync bool) *Client {
	return &Client{kv: store, autoSync: autoSync}
}

// Close closes the KV database connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv != nil {
		return c.kv.Close()
	}
	return nil
}

// IsReadOnly returns true if the database is open in read-only mode.
// This happens when another process (like an MCP server) holds the lock.
func (c *Client) IsReadOnly() bool {
	return c.kv.IsReadOnly()
}

// Sync synchronizes local state with Charm Cloud.
func (c *Client) Sync() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.kv.IsReadOnly() {
		return nil
	}
	return c.kv.Sync()
}

func (c *Client) syncIfEnabled() {
	if c.autoSync && !c.kv.IsReadOnly() {
		_ = c.kv.Sync()
	}
}

// SetAutoSync enables or disables automatic sync after writes.
func (c *Client) SetAutoSync(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoSync = enabled
}

// ID returns the Charm user ID for the current account.
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("create charm client: %w", err)
	}
	return cc.ID()
}

// Reset wipes local data and rebuilds from Charm Cloud.
func (c *Client) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Reset()
}

func recordKey(prefix string, id uuid.UUID) []byte {
	return []byte(prefix + id.String())
}

// keysLocked returns the keys starting with prefix. Callers hold mu.
func (c *Client) keysLocked(prefix string) ([][]byte, error) {
	keys, err := c.kv.Keys()
	if err != nil {
		return nil, err
	}
	var out [][]byte
	for _, key := range keys {
		if bytes.HasPrefix(key, []byte(prefix)) {
			out = append(out, key)
		}
	}
	return out, nil
}

// insert stores a new record, refusing to overwrite an existing key.
func (c *Client) insert(prefix string, id uuid.UUID, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}
	key := recordKey(prefix, id)
	existing, err := c.keysLocked(string(key))
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return fmt.Errorf("duplicate id %s", id)
	}
	if err := c.kv.Set(key, data); err != nil {
		return err
	}
	c.syncIfEnabled()
	return nil
}

// put overwrites a record.
func (c *Client) put(prefix string, id uuid.UUID, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}
	if err := c.kv.Set(recordKey(prefix, id), data); err != nil {
		return err
	}
	c.syncIfEnabled()
	return nil
}

// remove deletes the given records in one locked pass.
func (c *Client) remove(keys ...[]byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}
	for _, key := range keys {
		if err := c.kv.Delete(key); err != nil {
			return err
		}
	}
	if len(keys) > 0 {
		c.syncIfEnabled()
	}
	return nil
}

// listByPrefix decodes every record under prefix.
func listByPrefix[T any](c *Client, prefix string) ([]*T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys, err := c.keysLocked(prefix)
	if err != nil {
		return nil, err
	}
	results := make([]*T, 0, len(keys))
	for _, key := range keys {
		val, err := c.kv.Get(key)
		if err != nil {
			return nil, err
		}
		v, err := unmarshalJSON[T](val)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		results = append(results, v)
	}
	return results, nil
}

// getByIDPrefix retrieves a single record by ID prefix match.
func getByIDPrefix[T any](c *Client, typePrefix, idPrefix string) (*T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	key, err := c.resolveLocked(typePrefix, idPrefix)
	if err != nil {
		return nil, err
	}
	val, err := c.kv.Get(key)
	if err != nil {
		return nil, err
	}
	return unmarshalJSON[T](val)
}

// resolveLocked finds the one key matching typePrefix+idPrefix. Callers hold mu.
func (c *Client) resolveLocked(typePrefix, idPrefix string) ([]byte, error) {
	matches, err := c.keysLocked(typePrefix + idPrefix)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, storage.NotFound(idPrefix)
	case 1:
		return matches[0], nil
	default:
		return nil, storage.Ambiguous(idPrefix)
	}
}

func unmarshalJSON[T any](data []byte) (*T, error) {
	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
