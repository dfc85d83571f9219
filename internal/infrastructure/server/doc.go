// Package server assembles the bridge process: config, logger, metrics,
// whitelist, scheduler, network worker, inference client, session gateway
// and the ops API, all on one gin router.
package server
