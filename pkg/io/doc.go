// Package io reads and writes sector data sets.
//
// # Format
//
// Sector files are JSON (or msgpack with the same keys). The top level is
// either an object with a "sectors" array or a bare array:
//
//	{
//	  "sectors": [
//	    {
//	      "id": "XLK",
//	      "name": "Technology",
//	      "rs_ratio": 103.2,
//	      "rs_momentum": 1.4,
//	      "tail": [{"rs_ratio": 101.0, "rs_momentum": -0.2}],
//	      "change_percent": 0.85
//	    }
//	  ]
//	}
//
// Required per sector: id, rs_ratio, rs_momentum and tail (an empty array
// is fine, a missing key is not). Optional: name, color (#rgb or #rrggbb)
// and change_percent.
//
// # Validation
//
// A single malformed sector rejects the whole batch with
// errors.ErrCodeInvalidSector; nothing is silently dropped. Syntax errors
// are reported as errors.ErrCodeInvalidInput. An empty list is not an error
// here; layout reports it as insufficient data.
package io
