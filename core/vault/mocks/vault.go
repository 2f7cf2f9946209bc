package mocks

import (
	"context"

	"vault-sync/core/vault"

	"github.com/stretchr/testify/mock"
)

// Vault is a mock implementation of vault.Vault
type Vault struct {
	mock.Mock
}

func (m *Vault) GetItems(ctx context.Context, realm string) (map[string]vault.Item, error) {
	args := m.Called(ctx, realm)
	if items, ok := args.Get(0).(map[string]vault.Item); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Vault) GetItem(ctx context.Context, name string) (*vault.Item, error) {
	args := m.Called(ctx, name)
	if item, ok := args.Get(0).(*vault.Item); ok {
		return item, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Vault) CreateItem(ctx context.Context, name, collection, content string) error {
	args := m.Called(ctx, name, collection, content)
	return args.Error(0)
}

func (m *Vault) UpdateItem(ctx context.Context, id, content string) error {
	args := m.Called(ctx, id, content)
	return args.Error(0)
}

func (m *Vault) DeleteItem(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *Vault) GetCollections(ctx context.Context, realm string) (map[string]string, error) {
	args := m.Called(ctx, realm)
	if cols, ok := args.Get(0).(map[string]string); ok {
		return cols, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Vault) CreateCollection(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *Vault) DeleteCollection(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}
