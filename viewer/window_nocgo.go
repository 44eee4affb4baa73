//go:build !cgo

package main

import (
	"errors"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/preview"
)

// runWindow needs cgo for the graphics driver
func runWindow(session *preview.Session, scale int, logger core.Logger) error {
	return errors.New("viewer was built without cgo; rebuild with CGO_ENABLED=1")
}
