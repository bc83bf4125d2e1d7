// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package mesh

import "github.com/brepio/corebrep/errs"

var (
	errMissingAxis       = errs.InvalidInput("FaceMeta.Validate", "cylindrical face metadata missing axis")
	errNonUnitAxis       = errs.InvalidInput("FaceMeta.Validate", "cylindrical face axis is not unit length")
	errNonPositiveRadius = errs.InvalidInput("FaceMeta.Validate", "cylindrical face radius must be > 0")
)
