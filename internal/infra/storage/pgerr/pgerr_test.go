package pgerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	exclusion := fmt.Errorf("insert staff: %w", &pq.Error{Code: "23P01", Constraint: "appointment_staff_no_overlap"})

	assert.True(t, IsExclusionViolation(exclusion))
	assert.True(t, IsConcurrentConflict(exclusion))
	assert.Equal(t, "appointment_staff_no_overlap", Constraint(exclusion))

	assert.True(t, IsRetryable(&pq.Error{Code: "40001"}))
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))

	plain := errors.New("connection reset")
	assert.False(t, IsConcurrentConflict(plain))
	assert.Equal(t, pq.ErrorCode(""), Code(plain))
}
