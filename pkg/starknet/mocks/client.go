package mocks

import (
	"context"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/stretchr/testify/mock"

	"github.com/kkrt-labs/kakarot-go/pkg/starknet"
)

// MockClient is a mock implementation of starknet.Client for testing
type MockClient struct {
	mock.Mock
}

var _ starknet.Client = (*MockClient)(nil)

func (m *MockClient) CallContract(ctx context.Context, call starknet.Call) ([]*felt.Felt, error) {
	args := m.Called(ctx, call)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*felt.Felt), args.Error(1)
}

func (m *MockClient) Nonce(ctx context.Context, address *felt.Felt) (*felt.Felt, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*felt.Felt), args.Error(1)
}

func (m *MockClient) ClassHashAt(ctx context.Context, address *felt.Felt) (*felt.Felt, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*felt.Felt), args.Error(1)
}

func (m *MockClient) TransactionReceipt(ctx context.Context, hash *felt.Felt) (*starknet.Receipt, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*starknet.Receipt), args.Error(1)
}

func (m *MockClient) WaitForTransaction(ctx context.Context, hash *felt.Felt) error {
	args := m.Called(ctx, hash)
	return args.Error(0)
}

// MockAccount is a mock implementation of starknet.Account for testing
type MockAccount struct {
	mock.Mock
}

var _ starknet.Account = (*MockAccount)(nil)

func (m *MockAccount) Address() *felt.Felt {
	args := m.Called()
	return args.Get(0).(*felt.Felt)
}

func (m *MockAccount) Nonce(ctx context.Context) (*felt.Felt, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*felt.Felt), args.Error(1)
}

func (m *MockAccount) Execute(ctx context.Context, calls []starknet.Call, maxFee *felt.Felt) (*felt.Felt, error) {
	args := m.Called(ctx, calls, maxFee)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*felt.Felt), args.Error(1)
}
