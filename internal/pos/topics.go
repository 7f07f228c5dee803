package pos

const (
	TopicSaleSettled    = "pos.sale.settled"
	TopicSyncCompleted  = "pos.sync.completed"
	TopicCatalogUpdated = "catalog.updated"
)

// Partition key = sale_id, supaya semua event satu transaksi terjaga urutannya.
func PartitionKey(saleID string) []byte { return []byte(saleID) }
