package refresh

import (
	"sync"
	"sync/atomic"
)

// 文档注释：已发布快照的持有者
// 背景：读路径经 atomic.Pointer 无锁获取当前快照；写路径在互斥锁内比较代数后整体替换，读者不会看到半成品。
// 约束：只接受代数严格更大的快照；nil 快照不会被发布。
type published struct {
	mu  sync.Mutex
	cur atomic.Pointer[Snapshot]
}

func (p *published) Load() *Snapshot { return p.cur.Load() }

// swap：accept 在锁内调用，返回 false 时放弃发布
func (p *published) swap(s *Snapshot, accept func() bool) bool {
	if s == nil {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if old := p.cur.Load(); old != nil && old.Generation >= s.Generation {
		return false
	}
	if !accept() {
		return false
	}
	p.cur.Store(s)
	return true
}
