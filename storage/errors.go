package storage

import "errors"

var (
	ErrGet    = errors.New("unable to retrieve response from cache storage")
	ErrSet    = errors.New("unable to store response in cache storage")
	ErrDelete = errors.New("unable to delete response from cache storage")
)
