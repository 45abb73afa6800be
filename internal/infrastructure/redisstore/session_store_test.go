package redisstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/storefront/internal/domain/repository"
)

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "user:session:42", SessionKey(42))
}

func TestParseSession(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		data    map[string]string
		wantErr error
	}{
		{name: "missing", data: map[string]string{}, wantErr: repository.ErrNotFound},
		{name: "no sid", data: map[string]string{"user_id": "1"}, wantErr: repository.ErrNotFound},
		{
			name: "complete",
			data: map[string]string{
				"user_id": "7", "sid": "abc", "email": "a@b.test", "name": "Ann",
				"csrf_token": "tok", "created_at": created.Format(time.RFC3339Nano), "cart": `{"1":2}`,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, err := parseSession(tt.data)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(7), sess.UserID)
			assert.Equal(t, "abc", sess.SessionID)
			assert.Equal(t, "tok", sess.CSRFToken)
			assert.True(t, sess.CreatedAt.Equal(created))
		})
	}
}

func TestParseSession_BadUserID(t *testing.T) {
	_, err := parseSession(map[string]string{"user_id": "x", "sid": "s"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrNotFound)
}
