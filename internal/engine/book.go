package engine

import (
	"sync"

	"github.com/google/btree"

	"github.com/Reece236/StockMarketSim/internal/domain"
)

// BookEntry is a single order resting on one side of a period book. Seq is
// the arrival sequence number; it breaks price ties so matching is
// deterministic given a fixed seed.
type BookEntry struct {
	Price float64
	Seq   uint64
	Order *domain.Order
}

// buyLess orders the buy side: price descending, then arrival ascending.
// Min() therefore returns the best (highest) bid. Invalid prices never
// reach the comparison; Add excludes them.
func buyLess(a, b BookEntry) bool {
	if a.Price != b.Price {
		return a.Price > b.Price
	}
	return a.Seq < b.Seq
}

// sellLess orders the sell side: price ascending, then arrival ascending.
// Min() returns the best (lowest) ask.
func sellLess(a, b BookEntry) bool {
	if a.Price != b.Price {
		return a.Price < b.Price
	}
	return a.Seq < b.Seq
}

// Book holds the buy and sell queues for a single instrument within one
// period. Entries are drained front-first by the matcher; whatever remains
// after matching is discarded when the period book resets.
type Book struct {
	instrument string
	buys       *btree.BTreeG[BookEntry]
	sells      *btree.BTreeG[BookEntry]
}

// NewBook creates an empty book for the given instrument.
func NewBook(instrument string) *Book {
	const degree = 8
	return &Book{
		instrument: instrument,
		buys:       btree.NewG[BookEntry](degree, buyLess),
		sells:      btree.NewG[BookEntry](degree, sellLess),
	}
}

// PopBestBuy removes and returns the highest-priority buy order.
func (b *Book) PopBestBuy() (BookEntry, bool) {
	return b.buys.DeleteMin()
}

// PopBestSell removes and returns the highest-priority sell order.
func (b *Book) PopBestSell() (BookEntry, bool) {
	return b.sells.DeleteMin()
}

// BuyCount returns the number of open buy orders.
func (b *Book) BuyCount() int {
	return b.buys.Len()
}

// SellCount returns the number of open sell orders.
func (b *Book) SellCount() int {
	return b.sells.Len()
}

// PeriodBook is the shared order book for one period, keyed by instrument.
// It is owned by the market orchestrator, filled during order collection,
// drained during matching, and must be empty at the start and end of every
// period's matching pass.
type PeriodBook struct {
	mu    sync.Mutex
	books map[string]*Book
	seq   uint64
}

// NewPeriodBook creates an empty period book.
func NewPeriodBook() *PeriodBook {
	return &PeriodBook{books: make(map[string]*Book)}
}

// Add places an order on its instrument's book, tagging it with the next
// arrival sequence number. Orders with a non-positive quantity or an
// invalid limit price are excluded so they can never win priority over
// well-formed orders; the return value reports whether the order was
// accepted.
func (pb *PeriodBook) Add(o *domain.Order) bool {
	if o == nil || o.Quantity <= 0 || !domain.ValidPrice(o.Price) {
		return false
	}

	pb.mu.Lock()
	defer pb.mu.Unlock()

	book, ok := pb.books[o.Instrument]
	if !ok {
		book = NewBook(o.Instrument)
		pb.books[o.Instrument] = book
	}
	pb.seq++
	entry := BookEntry{Price: o.Price, Seq: pb.seq, Order: o}
	if o.Side == domain.SideBuy {
		book.buys.ReplaceOrInsert(entry)
	} else {
		book.sells.ReplaceOrInsert(entry)
	}
	return true
}

// Get returns the book for an instrument, or an empty book if no orders
// arrived for it this period.
func (pb *PeriodBook) Get(instrument string) *Book {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	if book, ok := pb.books[instrument]; ok {
		return book
	}
	return NewBook(instrument)
}

// Reset discards every remaining order. Unmatched orders are never carried
// into the next period.
func (pb *PeriodBook) Reset() {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	pb.books = make(map[string]*Book)
	pb.seq = 0
}

// Empty reports whether no orders rest anywhere in the period book.
func (pb *PeriodBook) Empty() bool {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	for _, book := range pb.books {
		if book.BuyCount() > 0 || book.SellCount() > 0 {
			return false
		}
	}
	return true
}
