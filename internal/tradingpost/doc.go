// Package tradingpost implements the REST client for the trading post API.
//
// The spider only needs one endpoint: the per-item commerce listings, which
// return the full current order book (all buy and sell levels). Requests are
// retried with exponential backoff and jitter on 5xx and 429 responses.
package tradingpost
