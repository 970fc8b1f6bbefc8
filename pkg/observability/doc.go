/*
Package observability provides tools for monitoring the smolbox engine.

It turns engine lifecycle hooks into Prometheus metrics and structured debug
logs, and lets several hook sets observe the same engine.
*/
package observability
