// Package config provides configuration parsing for reactor hosts and tools.
//
// The configuration lives in reactor.json or reactor.yaml next to the
// application. Both formats share one schema:
//
//	{
//	  "debug": false,
//	  "logLevel": "info",
//	  "hydration": {
//	    "fallback": "abort"
//	  },
//	  "render": {
//	    "pretty": false,
//	    "markers": true
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "reactor"
//	  }
//	}
//
// The YAML form uses the same keys:
//
//	logLevel: debug
//	hydration:
//	  fallback: remount
package config
