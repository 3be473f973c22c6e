// Package metrics provides Prometheus metrics for the chat and upload services
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors of the backend
type Metrics struct {
	// Chat metrics
	ChatMessagesTotal    *prometheus.CounterVec
	ChatAutoRepliesTotal *prometheus.CounterVec
	ChatLogSize          prometheus.Gauge

	// Upload metrics
	UploadedFilesTotal prometheus.Counter
	UploadedBytesTotal prometheus.Counter

	// Storage metrics
	StorageErrorsTotal *prometheus.CounterVec
}

// New creates the collectors and registers them on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ChatMessagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cloudchat_chat_messages_total",
				Help: "Total number of chat messages appended to the log",
			},
			[]string{"type"},
		),
		ChatAutoRepliesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cloudchat_chat_auto_replies_total",
				Help: "Total number of bot replies by source",
			},
			[]string{"source"},
		),
		ChatLogSize: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "cloudchat_chat_log_size",
				Help: "Current number of messages retained in the chat log",
			},
		),
		UploadedFilesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "cloudchat_uploaded_files_total",
				Help: "Total number of stored files",
			},
		),
		UploadedBytesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "cloudchat_uploaded_bytes_total",
				Help: "Total number of bytes written to storage",
			},
		),
		StorageErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cloudchat_storage_errors_total",
				Help: "Total number of storage failures by operation",
			},
			[]string{"operation"},
		),
	}
}

// RecordChat records one chat append cycle
func (m *Metrics) RecordChat(replySource string, logSize int) {
	if m == nil {
		return
	}
	m.ChatMessagesTotal.WithLabelValues("user").Inc()
	if replySource != "" {
		m.ChatMessagesTotal.WithLabelValues("bot").Inc()
		m.ChatAutoRepliesTotal.WithLabelValues(replySource).Inc()
	}
	m.ChatLogSize.Set(float64(logSize))
}

// RecordUpload records a stored file
func (m *Metrics) RecordUpload(size int64) {
	if m == nil {
		return
	}
	m.UploadedFilesTotal.Inc()
	m.UploadedBytesTotal.Add(float64(size))
}

// RecordStorageError records a storage failure
func (m *Metrics) RecordStorageError(operation string) {
	if m == nil {
		return
	}
	m.StorageErrorsTotal.WithLabelValues(operation).Inc()
}
