package modbus

import (
	"time"

	"github.com/stretchr/testify/mock"
)

// fakeTransport is a mock.Mock-based Transport fake, grounded on the
// teacher's netConnMock (client_test.go): every method goes through
// m.Called so tests can set expectations with .On(...).Return(...).
type fakeTransport struct {
	mock.Mock
	open bool
}

func (t *fakeTransport) Open() error {
	args := t.Called()
	t.open = true
	return args.Error(0)
}

func (t *fakeTransport) Close() error {
	args := t.Called()
	t.open = false
	return args.Error(0)
}

func (t *fakeTransport) IsOpen() bool {
	return t.open
}

func (t *fakeTransport) Write(data []byte) (int, error) {
	args := t.Called(data)
	return args.Int(0), args.Error(1)
}

func (t *fakeTransport) Read(buf []byte) (int, error) {
	args := t.Called(buf)
	if data, ok := args.Get(2).([]byte); ok {
		copy(buf, data)
	}
	return args.Int(0), args.Error(1)
}

func (t *fakeTransport) ClearInput() error {
	args := t.Called()
	return args.Error(0)
}

func (t *fakeTransport) ClearOutput() error {
	args := t.Called()
	return args.Error(0)
}

func (t *fakeTransport) SetReadTimeout(d time.Duration) error {
	args := t.Called(d)
	return args.Error(0)
}

func (t *fakeTransport) SetWriteTimeout(d time.Duration) error {
	args := t.Called(d)
	return args.Error(0)
}

// readOnce registers a single Read call that fills buf with data and
// returns len(data), nil.
func readOnce(transport *fakeTransport, data []byte) {
	transport.On("Read", mock.Anything).Return(len(data), nil, data).Once()
}
