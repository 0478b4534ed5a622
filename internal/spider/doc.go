// Package spider implements the core of the trading-post spider: the
// priority classifier that decides how urgently an item needs re-polling,
// the aggregator that reduces a raw order book into persisted snapshots,
// the trend calculator that derives trailing one-hour price changes, and
// the work item that ties one poll cycle together.
//
// One cycle: load item, fetch and aggregate the order book, update trends,
// requeue a fresh work item at now + the classifier's delay. External
// collaborators (queue, market data source, stores) are consumed through
// interfaces defined here.
package spider
