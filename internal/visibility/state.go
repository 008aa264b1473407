// 包 visibility：图层分组的可见性与透明度状态
package visibility

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
)

// GroupState：单个分组的显示状态
type GroupState struct {
	Visible bool    `json:"visible"`
	Opacity float64 `json:"opacity"`
}

// 文档注释：分组显示状态集合
// 背景：结构层按分组开关；状态变更后由调用方显式重新组合图层，不做订阅推送。
// 约束：并发安全；Opacity 恒在 [0,1]；未知分组的开关操作为空操作，导入时出现的未知分组原样保留。
type State struct {
	mu       sync.RWMutex
	defaults []string
	groups   map[string]GroupState
}

// NewState：defaults 中的分组全部可见、不透明
func NewState(defaults []string) *State {
	s := &State{defaults: append([]string(nil), defaults...)}
	s.groups = s.initial()
	return s
}

func (s *State) initial() map[string]GroupState {
	m := make(map[string]GroupState, len(s.defaults))
	for _, g := range s.defaults {
		m[g] = GroupState{Visible: true, Opacity: 1}
	}
	return m
}

// Get：分组状态，未知分组 ok=false
func (s *State) Get(group string) (GroupState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.groups[group]
	return g, ok
}

// Visible：谓词，未知分组视为不可见
func (s *State) Visible(group string) bool {
	g, _ := s.Get(group)
	return g.Visible
}

// Toggle：翻转可见性，返回新状态
func (s *State) Toggle(group string) (GroupState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[group]
	if !ok {
		return GroupState{}, false
	}
	g.Visible = !g.Visible
	s.groups[group] = g
	return g, true
}

func (s *State) SetVisible(group string, visible bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[group]
	if !ok {
		return false
	}
	g.Visible = visible
	s.groups[group] = g
	return true
}

// SetOpacity：超出 [0,1] 的值被截断；NaN 视为无效
func (s *State) SetOpacity(group string, opacity float64) bool {
	if math.IsNaN(opacity) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[group]
	if !ok {
		return false
	}
	g.Opacity = clamp01(opacity)
	s.groups[group] = g
	return true
}

func (s *State) ShowAll() { s.setAll(true) }
func (s *State) HideAll() { s.setAll(false) }

func (s *State) setAll(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, g := range s.groups {
		g.Visible = v
		s.groups[k] = g
	}
}

// Reset：恢复默认，导入的未知分组一并丢弃
func (s *State) Reset() {
	s.mu.Lock()
	s.groups = s.initial()
	s.mu.Unlock()
}

// Groups：默认分组在前（保持配置顺序），其余按字典序
func (s *State) Groups() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.orderLocked()
}

func (s *State) orderLocked() []string {
	out := make([]string, 0, len(s.groups))
	seen := make(map[string]bool, len(s.defaults))
	for _, g := range s.defaults {
		if _, ok := s.groups[g]; ok {
			out = append(out, g)
			seen[g] = true
		}
	}
	var extra []string
	for g := range s.groups {
		if !seen[g] {
			extra = append(extra, g)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

type entry struct {
	GroupID string   `json:"groupId"`
	Visible *bool    `json:"visible"`
	Opacity *float64 `json:"opacity,omitempty"`
}

// Export：导出为 [{groupId, visible, opacity}]，顺序同 Groups
func (s *State) Export() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entry, 0, len(s.groups))
	for _, g := range s.orderLocked() {
		st := s.groups[g]
		v, o := st.Visible, st.Opacity
		out = append(out, entry{GroupID: g, Visible: &v, Opacity: &o})
	}
	return json.MarshalIndent(out, "", "  ")
}

// 文档注释：导入状态
// 背景：先恢复默认再逐条应用；缺少 groupId 或 visible 不是布尔值的条目被忽略，opacity 缺失或非数字时取 1。
// 约束：整体不是 JSON 数组时返回错误且状态不变。
func (s *State) Import(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("visibility import: %w", err)
	}
	next := s.initial()
	for _, r := range raw {
		var e struct {
			GroupID string          `json:"groupId"`
			Visible json.RawMessage `json:"visible"`
			Opacity json.RawMessage `json:"opacity"`
		}
		if json.Unmarshal(r, &e) != nil || e.GroupID == "" {
			continue
		}
		var visible bool
		if isNull(e.Visible) || json.Unmarshal(e.Visible, &visible) != nil {
			continue
		}
		opacity := 1.0
		var o float64
		if !isNull(e.Opacity) && json.Unmarshal(e.Opacity, &o) == nil {
			opacity = clamp01(o)
		}
		next[e.GroupID] = GroupState{Visible: visible, Opacity: opacity}
	}
	s.mu.Lock()
	s.groups = next
	s.mu.Unlock()
	return nil
}

func isNull(r json.RawMessage) bool {
	t := strings.TrimSpace(string(r))
	return t == "" || t == "null"
}

func clamp01(v float64) float64 { return math.Max(0, math.Min(1, v)) }
