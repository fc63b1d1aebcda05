package tmux

import (
	"github.com/stretchr/testify/mock"
)

// MockClient is a mock implementation of TmuxClient for testing.
//
// Example usage:
//
//	mockClient := new(MockClient)
//	mockClient.On("HasSession").Return(true, nil)
//	mockClient.On("Run", []string{"kill-pane", "-t", "%3"}).Return("", "", nil)
type MockClient struct {
	mock.Mock
}

// HasSession returns a mocked server state.
func (m *MockClient) HasSession() (bool, error) {
	args := m.Called()
	return args.Bool(0), args.Error(1)
}

// CurrentPane returns a mocked pane id.
func (m *MockClient) CurrentPane() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

// Run records args as a single slice argument, so expectations are set with
//
//	mock.On("Run", []string{"list-panes", "-a"}).Return("", "", nil)
func (m *MockClient) Run(args ...string) (string, string, error) {
	ret := m.Called(args)
	return ret.String(0), ret.String(1), ret.Error(2)
}
