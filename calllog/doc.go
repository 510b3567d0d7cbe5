// Package calllog records every search and call the registry serves.
//
// A [Record] is emitted to a [Sink]. [SlogSink] writes records as
// structured log lines; [Ring] keeps the most recent records in memory so
// they can be listed back. [Multi] fans a record out to several sinks.
package calllog
