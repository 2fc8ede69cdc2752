package tools

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/slighter12/mcp-toolserver-go/logger"
	"github.com/slighter12/mcp-toolserver-go/tools/types"
)

// Manager is the tool registry. Registration order is kept for listings.
type Manager struct {
	tools map[string]types.Tool
	order []string
	mutex sync.RWMutex
}

// NewManager creates a new tool manager
func NewManager() *Manager {
	return &Manager{
		tools: make(map[string]types.Tool),
	}
}

// RegisterTool adds a tool. Registering a name twice replaces the earlier tool
// in place; the later registration wins.
func (m *Manager) RegisterTool(tool types.Tool) error {
	if tool == nil {
		return errors.New("tool cannot be nil")
	}

	name := tool.Name()
	if name == "" {
		return errors.New("tool name cannot be empty")
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.tools[name]; exists {
		logger.Warn("Tool re-registered, replacing previous definition", "name", name)
	} else {
		m.order = append(m.order, name)
	}
	m.tools[name] = tool
	logger.Debug("Tool registered", "name", name)
	return nil
}

// GetTool retrieves a tool by name
func (m *Manager) GetTool(name string) (types.Tool, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	tool, exists := m.tools[name]
	return tool, exists
}

// Names returns the registered tool names in registration order.
func (m *Manager) Names() []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return append([]string(nil), m.order...)
}

// Count returns the number of registered tools.
func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return len(m.order)
}

// ListTools returns the listing entry of every tool in registration order.
func (m *Manager) ListTools() []types.ToolInfo {
	m.mutex.RLock()
	registered := make([]types.Tool, 0, len(m.order))
	for _, name := range m.order {
		registered = append(registered, m.tools[name])
	}
	m.mutex.RUnlock()

	infos := make([]types.ToolInfo, 0, len(registered))
	for _, tool := range registered {
		infos = append(infos, tool.Info())
	}
	return infos
}

// Invoke calls the named tool with args bound by parameter name.
//
// It returns *types.NotFoundError for an unknown name and
// *types.ArgumentMismatchError when args do not fit the parameters. Every
// other failure, including a panic in the tool body, is wrapped in
// *types.ExecutionError.
func (m *Manager) Invoke(ctx context.Context, name string, args map[string]any) (result any, err error) {
	tool, exists := m.GetTool(name)
	if !exists {
		return nil, &types.NotFoundError{Name: name}
	}
	if args == nil {
		args = map[string]any{}
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &types.ExecutionError{Tool: name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	logger.Debug("Executing tool", "name", name, "args", len(args))
	result, err = tool.Call(ctx, args)
	if err == nil {
		return result, nil
	}
	if _, ok := types.AsArgumentMismatch(err); ok {
		return nil, err
	}
	if _, ok := types.AsExecutionError(err); ok {
		return nil, err
	}
	return nil, &types.ExecutionError{Tool: name, Err: err}
}
