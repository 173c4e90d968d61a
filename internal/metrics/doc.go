/*
Package metrics provides Prometheus instrumentation for filesystem
operations.

The collector registers operation counters and latency histograms on a
private registry and exposes them through a standard promhttp handler. A nil
*Collector is valid and records nothing, so instrumentation can be disabled
by simply not configuring it.
*/
package metrics
