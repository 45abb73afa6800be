package helpers

import (
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
)

func TestRetryCount(t *testing.T) {
	tests := []struct {
		name    string
		headers amqp.Table
		want    int
	}{
		{name: "nil headers", headers: nil, want: 0},
		{name: "missing", headers: amqp.Table{"other": int32(4)}, want: 0},
		{name: "int32", headers: amqp.Table{RetryHeader: int32(3)}, want: 3},
		{name: "int64", headers: amqp.Table{RetryHeader: int64(2)}, want: 2},
		{name: "int16", headers: amqp.Table{RetryHeader: int16(1)}, want: 1},
		{name: "string", headers: amqp.Table{RetryHeader: "5"}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RetryCount(tt.headers))
		})
	}
}
