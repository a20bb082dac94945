package fiberstore

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/patrickmn/go-cache"
)

// Memory keeps entries in process memory.
type Memory struct {
	c *cache.Cache
}

var _ fiber.Storage = &Memory{}

func NewMemory() *Memory {
	return &Memory{
		c: cache.New(cache.NoExpiration, time.Minute),
	}
}

func (m *Memory) Close() error {
	return nil
}

func (m *Memory) Delete(key string) error {
	m.c.Delete(key)
	return nil
}

func (m *Memory) Get(key string) ([]byte, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, nil
	}
	return v.([]byte), nil
}

func (m *Memory) Reset() error {
	m.c.Flush()
	return nil
}

// Set implements fiber.Storage. A zero exp keeps the entry until deleted.
func (m *Memory) Set(key string, val []byte, exp time.Duration) error {
	if exp <= 0 {
		exp = cache.NoExpiration
	}
	m.c.Set(key, append([]byte(nil), val...), exp)
	return nil
}
