/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package database

import (
	"context"
	"errors"

	"github.com/lib/pq"

	"github.com/blnkfinance/wallet/internal/apierror"
)

const idempotencyKeyConstraint = "transactions_idempotency_key_key"

// classifyError turns driver errors into APIErrors. Errors that already are APIErrors pass through.
func classifyError(err error, message string) error {
	if err == nil {
		return nil
	}
	if _, ok := apierror.As(err); ok {
		return err
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "unique_violation":
			return apierror.NewAPIError(apierror.ErrConflict, message, err)
		case "foreign_key_violation":
			return apierror.NewAPIError(apierror.ErrBadRequest, "Referenced record does not exist", err)
		case "invalid_text_representation":
			return apierror.NewAPIError(apierror.ErrBadRequest, "Malformed identifier or value", err)
		case "numeric_value_out_of_range":
			return apierror.NewAPIError(apierror.ErrInvalidInput, "Amount is out of range", err)
		case "check_violation":
			return apierror.NewAPIError(apierror.ErrInvalidInput, "Value violates a table constraint", err)
		case "serialization_failure", "deadlock_detected":
			return apierror.NewAPIError(apierror.ErrConflict, "Concurrent update detected, retry the request", err)
		}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return apierror.NewAPIError(apierror.ErrInternalServer, message, err)
}

func isIdempotencyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" && pqErr.Constraint == idempotencyKeyConstraint
}
