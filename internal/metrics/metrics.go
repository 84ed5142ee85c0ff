package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 引擎核心Prometheus指标
var (
	// ModelLoads 嵌入模型加载次数
	ModelLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_model_loads_total",
			Help: "Total number of embedding model load attempts",
		},
		[]string{"status"}, // status: success, error
	)

	// ModelUnloads 嵌入模型卸载次数
	ModelUnloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_model_unloads_total",
			Help: "Total number of embedding model unloads",
		},
		[]string{"reason"}, // reason: idle, explicit
	)

	// EmbeddingRequests 向量化请求次数
	EmbeddingRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "embedding_requests_total",
			Help: "Total number of embedding requests served by the model",
		},
	)

	// CompletionFallbacks 补全降级次数（单个provider失败后切换）
	CompletionFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "completion_provider_fallbacks_total",
			Help: "Total number of completion calls that fell through to the next provider",
		},
		[]string{"provider"},
	)

	// CompletionRequests 补全请求次数
	CompletionRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "completion_requests_total",
			Help: "Total number of completion requests",
		},
		[]string{"provider", "status"}, // status: success, error, auth_error
	)

	// CacheLookups 结果缓存查询次数
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "result_cache_lookups_total",
			Help: "Total number of result cache lookups",
		},
		[]string{"result"}, // result: hit, miss, expired
	)

	// RetrievalDegraded 检索降级次数（无模型或无分块，退回摘要）
	RetrievalDegraded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "retrieval_degraded_total",
			Help: "Total number of chat retrievals that degraded to abstract-only context",
		},
	)
)
