// Package tool 提供工具注册与选择
// 当前版本不内置可执行工具，注册表为空时选择阶段直接透传
package tool

// Info 工具元信息
type Info struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	TriggerKeywords []string `json:"trigger_keywords"`
}

// Registry 工具注册表
type Registry interface {
	// ListTools 列出全部工具
	ListTools() []Info
	// GetToolMetadata 按名称查询工具，未注册时返回 (Info{}, false)
	GetToolMetadata(name string) (Info, bool)
}

// emptyRegistry 空注册表
type emptyRegistry struct{}

// NewEmptyRegistry 创建空注册表
func NewEmptyRegistry() Registry {
	return &emptyRegistry{}
}

func (r *emptyRegistry) ListTools() []Info {
	return nil
}

func (r *emptyRegistry) GetToolMetadata(name string) (Info, bool) {
	return Info{}, false
}

// staticRegistry 基于静态列表的注册表
type staticRegistry struct {
	tools []Info
	index map[string]Info
}

// NewStaticRegistry 用给定的工具列表创建注册表
func NewStaticRegistry(tools []Info) Registry {
	index := make(map[string]Info, len(tools))
	for _, t := range tools {
		index[t.Name] = t
	}
	return &staticRegistry{tools: tools, index: index}
}

func (r *staticRegistry) ListTools() []Info {
	out := make([]Info, len(r.tools))
	copy(out, r.tools)
	return out
}

func (r *staticRegistry) GetToolMetadata(name string) (Info, bool) {
	t, ok := r.index[name]
	return t, ok
}
