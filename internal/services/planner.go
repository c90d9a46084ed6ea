package services

// Transfer strategy defaults. The threshold and part size are policy, not
// backend requirements; the 10000-part cap is S3's documented limit.
const (
	DefaultMultipartThreshold = 100 * 1024 * 1024 // 100MiB
	DefaultPartSize           = 10 * 1024 * 1024  // 10MiB
	MaxParts                  = 10000

	mib = 1024 * 1024
)

// TransferKind identifies the transfer strategy for one upload.
type TransferKind string

const (
	TransferSimple    TransferKind = "simple"
	TransferMultipart TransferKind = "multipart"
)

// TransferPlan is the result of classifying a file by size.
type TransferPlan struct {
	Kind      TransferKind
	PartSize  int64 // 0 for simple transfers
	PartCount int   // 0 for simple transfers
}

// Planner selects between single-shot and multipart transfers.
type Planner struct {
	threshold int64
	partSize  int64
	maxParts  int
}

// NewPlanner creates a planner; zero values fall back to the defaults above.
func NewPlanner(threshold, partSize int64, maxParts int) *Planner {
	if threshold <= 0 {
		threshold = DefaultMultipartThreshold
	}
	if partSize <= 0 {
		partSize = DefaultPartSize
	}
	if maxParts <= 0 {
		maxParts = MaxParts
	}
	return &Planner{
		threshold: threshold,
		partSize:  partSize,
		maxParts:  maxParts,
	}
}

// Plan classifies a file of the given size. Files strictly below the
// threshold go as a single PutObject; everything else is split into parts.
// When the configured part size would exceed the backend's part cap, the
// part size grows (rounded up to a whole MiB) until the count fits.
func (p *Planner) Plan(size int64) TransferPlan {
	if size < p.threshold {
		return TransferPlan{Kind: TransferSimple}
	}

	partSize := p.partSize
	if ceilDiv(size, partSize) > int64(p.maxParts) {
		minSize := ceilDiv(size, int64(p.maxParts))
		partSize = ceilDiv(minSize, mib) * mib
	}

	return TransferPlan{
		Kind:      TransferMultipart,
		PartSize:  partSize,
		PartCount: int(ceilDiv(size, partSize)),
	}
}

func ceilDiv(a, b int64) int64 {
	return (a + b - 1) / b
}
