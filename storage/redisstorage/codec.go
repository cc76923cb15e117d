package redisstorage

import (
	"bytes"
	"encoding/gob"

	responsecache "github.com/karupanerura/response-cache"
)

// Codec serializes cache entries for storage in Redis.
type Codec interface {
	Marshal(*responsecache.Entry) ([]byte, error)
	Unmarshal([]byte) (*responsecache.Entry, error)
}

// GobCodec encodes entries with encoding/gob. It is the default codec.
type GobCodec struct{}

var _ Codec = GobCodec{}

func (GobCodec) Marshal(entry *responsecache.Entry) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(entry); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (GobCodec) Unmarshal(data []byte) (*responsecache.Entry, error) {
	var entry responsecache.Entry
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&entry); err != nil {
		return nil, err
	}
	return &entry, nil
}
