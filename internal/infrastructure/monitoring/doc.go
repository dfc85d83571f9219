/*
Package monitoring provides Prometheus metrics for the bridge.

# Overview

Metrics cover the three places work flows through: HTTP (ops API and the
session upgrade), the inference channel, and the command pipeline
(payloads, whitelist rejections, batches, scheduled commands).

# Usage

	// Create metrics collector on a registry
	reg := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(reg)
	defer metrics.Close()

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Record pipeline metrics
	metrics.RecordPayload("build")
	metrics.RecordCommandSubmitted("macro")

	// Time inference calls
	timer := monitoring.NewTimer(metrics, "chat")
	// ... perform request ...
	timer.Stop("200")

A nil *Metrics is valid and records nothing.

# Metrics Endpoint

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
*/
package monitoring
