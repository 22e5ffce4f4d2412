package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Gitsandu/taskmanagementBackend/internal/domain/apperror"
	"github.com/Gitsandu/taskmanagementBackend/internal/domain/entity"
)

func TestDecide(t *testing.T) {
	owned := &entity.Task{ID: "t1", OwnerID: "alice"}

	tests := []struct {
		name   string
		task   *entity.Task
		user   string
		want   Decision
		wantEr apperror.Kind
	}{
		{"owner is allowed", owned, "alice", Allow, -1},
		{"other user is forbidden", owned, "bob", Forbidden, apperror.KindForbidden},
		{"missing task is not found for owner", nil, "alice", NotFound, apperror.KindNotFound},
		{"missing task is not found for stranger", nil, "bob", NotFound, apperror.KindNotFound},
		{"empty user id is forbidden", owned, "", Forbidden, apperror.KindForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.task, tt.user)
			assert.Equal(t, tt.want, got)
			if tt.want == Allow {
				assert.NoError(t, got.Err())
				return
			}
			assert.Equal(t, tt.wantEr, apperror.KindOf(got.Err()))
		})
	}
}

func TestDecision_String(t *testing.T) {
	assert.Equal(t, "allow", Allow.String())
	assert.Equal(t, "not_found", NotFound.String())
	assert.Equal(t, "forbidden", Forbidden.String())
}
