// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// Keep pdfcpu from creating its config directory under the user's home.
	api.DisableConfigDir()
}

// Validate checks the cross-reference table and object structure of the
// PDF at path with pdfcpu in relaxed mode. Failures wrap ErrInvalidPDF.
func Validate(path string) error {
	if err := validate(path); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidPDF, path, err)
	}
	return nil
}

func validate(path string) (err error) {
	defer recoverTo(&err, "pdfcpu")

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return api.ValidateFile(path, conf)
}
