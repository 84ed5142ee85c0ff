package embedding

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/patenthub/backend-go/internal/logger"
	"github.com/patenthub/backend-go/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Dimensions 嵌入向量维度（all-MiniLM-L6-v2）
const Dimensions = 384

// DefaultIdleUnload 默认空闲自动卸载时长
const DefaultIdleUnload = 5 * time.Minute

// ModelLoadError 嵌入后端初始化失败
type ModelLoadError struct {
	Err error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("embedding model load failed: %v", e.Err)
}

func (e *ModelLoadError) Unwrap() error {
	return e.Err
}

// Manager 嵌入模型生命周期管理器。
// 进程内只存在一个物理模型实例：懒加载，空闲超时后自动卸载。
// 每次访问都会把空闲定时器重置为从当前时刻起的完整时长。
type Manager struct {
	factory Factory
	idle    time.Duration

	mu      sync.Mutex
	backend Backend
	timer   *time.Timer

	// 并发首次调用合并为一次加载
	group singleflight.Group
}

// NewManager 创建生命周期管理器。idle<=0时使用默认5分钟
func NewManager(factory Factory, idle time.Duration) *Manager {
	if idle <= 0 {
		idle = DefaultIdleUnload
	}
	return &Manager{
		factory: factory,
		idle:    idle,
	}
}

// IsLoaded 模型当前是否已加载。无副作用，不重置定时器
func (m *Manager) IsLoaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.backend != nil
}

// Load 显式加载模型。已加载时只重置空闲定时器
func (m *Manager) Load(ctx context.Context) error {
	return m.ensureLoaded(ctx)
}

// Unload 显式卸载模型。幂等：未加载时直接返回
func (m *Manager) Unload() {
	m.unload("explicit")
}

// Embed 计算文本的均值池化、L2归一化嵌入向量。
//   - 空白文本返回零向量，不触碰模型也不重置定时器；
//   - requireLoaded=false且模型未加载时立即返回零向量，避免隐式加载；
//   - 其余情况保证模型已加载（必要时加载），并重置空闲定时器。
func (m *Manager) Embed(ctx context.Context, text string, requireLoaded bool) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return zeroVector(), nil
	}
	if !requireLoaded && !m.IsLoaded() {
		return zeroVector(), nil
	}

	// 空闲卸载可能在检查和调用之间触发，最多重试一次透明重载
	for attempt := 0; attempt < 2; attempt++ {
		if err := m.ensureLoaded(ctx); err != nil {
			return nil, err
		}

		m.mu.Lock()
		backend := m.backend
		m.mu.Unlock()
		if backend == nil {
			continue
		}

		vec, err := backend.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		if len(vec) != Dimensions {
			return nil, fmt.Errorf("embedding backend returned %d dimensions, expected %d", len(vec), Dimensions)
		}

		metrics.EmbeddingRequests.Inc()
		m.touch()
		return normalize(vec), nil
	}
	return nil, fmt.Errorf("embedding model unloaded during request")
}

// ensureLoaded 保证模型已加载并重置定时器。并发加载合并为一次
func (m *Manager) ensureLoaded(ctx context.Context) error {
	m.mu.Lock()
	if m.backend != nil {
		m.resetTimerLocked()
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()

	_, err, _ := m.group.Do("load", func() (interface{}, error) {
		m.mu.Lock()
		if m.backend != nil {
			m.mu.Unlock()
			return nil, nil
		}
		m.mu.Unlock()

		started := time.Now()
		backend, err := m.factory(ctx)
		if err != nil {
			metrics.ModelLoads.WithLabelValues("error").Inc()
			return nil, &ModelLoadError{Err: err}
		}

		m.mu.Lock()
		m.backend = backend
		m.mu.Unlock()

		metrics.ModelLoads.WithLabelValues("success").Inc()
		logger.Info("Embedding model loaded", zap.Duration("took", time.Since(started)))
		return nil, nil
	})
	if err != nil {
		return err
	}

	m.touch()
	return nil
}

// touch 重置空闲定时器（模型已加载时）
func (m *Manager) touch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.backend != nil {
		m.resetTimerLocked()
	}
}

// resetTimerLocked 替换（而不是追加）空闲定时器，保证同一时刻最多一个在等待
func (m *Manager) resetTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(m.idle, func() {
		m.unload("idle")
	})
}

func (m *Manager) unload(reason string) {
	m.mu.Lock()
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	backend := m.backend
	m.backend = nil
	m.mu.Unlock()

	if backend == nil {
		return
	}
	if err := backend.Close(); err != nil {
		logger.Warn("Failed to close embedding backend", zap.Error(err))
	}
	metrics.ModelUnloads.WithLabelValues(reason).Inc()
	logger.Info("Embedding model unloaded", zap.String("reason", reason))
}

// zeroVector 返回固定维度的零向量
func zeroVector() []float32 {
	return make([]float32, Dimensions)
}

// normalize 对向量做L2归一化。零向量原样返回
func normalize(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vec
	}
	norm := float32(math.Sqrt(sum))
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = v / norm
	}
	return out
}
