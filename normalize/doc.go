// Package normalize converts provider return values into bounded,
// JSON-safe structures.
//
// # Shapes
//
//   - nil becomes {"message": "no data"}
//   - a map with an "error" key keeps its shape; only its leaves are cleaned
//   - a [frame.Table] or record list becomes {"data": [...]}, truncated to
//     maxRows with "warning" and "total_rows" attached when cut
//   - a list of tables normalizes each table; the outer list is cut to
//     maxRows with an outer "warning"
//   - any other list becomes {"data": [...]}; tables and maps inside it are
//     bounded the same way
//   - a map is normalized value by value
//   - structs become maps keyed by their json field names
//   - scalars pass through
//
// Every leaf in the output is a JSON primitive: times become
// "2006-01-02 15:04:05" strings and NaN or infinite floats become nil.
package normalize
