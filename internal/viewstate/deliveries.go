package viewstate

import (
	"strings"

	"github.com/fekuna/stroymaterials/internal/livequery"
	"github.com/fekuna/stroymaterials/internal/model"
)

type DeliverySource interface {
	SearchSource[model.Delivery]
	WatchByStatus(status model.DeliveryStatus) livequery.Query[[]model.Delivery]
}

// DeliveryFilter selects at most one of a search term or a status.
type DeliveryFilter struct {
	Term   string
	Status model.DeliveryStatus
}

func (f DeliveryFilter) String() string {
	switch {
	case f.Status != "":
		return "status:" + string(f.Status)
	case f.Term != "":
		return "q:" + f.Term
	}
	return "all"
}

type DeliveryList struct {
	*List[DeliveryFilter, model.Delivery]
}

func NewDeliveryList(src DeliverySource, opts ...Option) *DeliveryList {
	return &DeliveryList{List: New(DeliveryFilter{}, func(f DeliveryFilter) livequery.Query[[]model.Delivery] {
		switch {
		case f.Status != "":
			return src.WatchByStatus(f.Status)
		case f.Term != "":
			return src.WatchSearch(f.Term)
		}
		return src.WatchAll()
	}, opts...)}
}

// Search replaces any status filter.
func (d *DeliveryList) Search(term string) {
	term = strings.TrimSpace(term)
	if term == "" {
		d.Set(DeliveryFilter{})
		return
	}
	d.Set(DeliveryFilter{Term: term})
}

// SetStatus replaces any search term; an empty status shows everything.
func (d *DeliveryList) SetStatus(status model.DeliveryStatus) {
	d.Set(DeliveryFilter{Status: status})
}

func (d *DeliveryList) Refresh() {
	d.Set(DeliveryFilter{})
}
