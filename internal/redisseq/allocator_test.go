package redisseq

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedAllocator(t *testing.T) (*Allocator, redismock.ClientMock) {
	t.Helper()
	client, mock := redismock.NewClientMock()
	a := New(client)
	a.now = func() time.Time { return time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC) }
	return a, mock
}

func TestAllocator_NextCaseNumber(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock redismock.ClientMock)
		want    string
		wantErr bool
	}{
		{
			name: "first of the year sets expiry",
			setup: func(mock redismock.ClientMock) {
				mock.ExpectIncr("case_seq:co-1:2024").SetVal(1)
				mock.ExpectExpire("case_seq:co-1:2024", keyTTL).SetVal(true)
			},
			want: "LC-2024-000001",
		},
		{
			name: "subsequent number",
			setup: func(mock redismock.ClientMock) {
				mock.ExpectIncr("case_seq:co-1:2024").SetVal(123)
			},
			want: "LC-2024-000123",
		},
		{
			name: "expire failure is ignored",
			setup: func(mock redismock.ClientMock) {
				mock.ExpectIncr("case_seq:co-1:2024").SetVal(1)
				mock.ExpectExpire("case_seq:co-1:2024", keyTTL).SetErr(errors.New("READONLY"))
			},
			want: "LC-2024-000001",
		},
		{
			name: "incr failure",
			setup: func(mock redismock.ClientMock) {
				mock.ExpectIncr("case_seq:co-1:2024").SetErr(errors.New("connection refused"))
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, mock := fixedAllocator(t)
			tt.setup(mock)

			got, err := a.NextCaseNumber(context.Background(), "co-1")
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "case_seq:co-1:2024")
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "LC-2025-000042", Format(2025, 42))
	assert.Equal(t, "LC-2025-1234567", Format(2025, 1234567))
	assert.Equal(t, "case_seq:co-9:2025", Key("co-9", 2025))
}
