package repositories

// DefaultPageSize - размер страницы списков кандидатов и админов
const DefaultPageSize = 12

// Overflow - что делать, если запрошена страница за последней
type Overflow int

const (
	// OverflowEmptyPage - вернуть пустую страницу
	OverflowEmptyPage Overflow = iota
	// OverflowLastPage - вернуть последнюю страницу
	OverflowLastPage
)

// PageRequest - номер страницы (с 1) и ее размер
type PageRequest struct {
	Page  int
	Limit int
}

func (p PageRequest) normalized() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	return p
}

// PageMeta - метаданные страницы в формате, который ждет фронтенд
type PageMeta struct {
	Count int64 `json:"count"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
	Last  int   `json:"last"`
	From  int64 `json:"from"`
	To    int64 `json:"to"`
	Prev  *int  `json:"prev"`
	Next  *int  `json:"next"`
	In    int   `json:"in"`
}

// ResolvePage считает итоговый номер страницы и offset с учетом overflow
func ResolvePage(count int64, req PageRequest, overflow Overflow) (page, offset int) {
	req = req.normalized()
	last := lastPage(count, req.Limit)
	page = req.Page
	if page <= last {
		return page, (page - 1) * req.Limit
	}
	if overflow == OverflowLastPage {
		return last, (last - 1) * req.Limit
	}
	// за последней страницей offset не растет вместе с page, иначе переполнение
	return page, last * req.Limit
}

// NewPageMeta строит метаданные по итоговой странице и числу строк на ней
func NewPageMeta(count int64, page, limit, rowsOnPage int) PageMeta {
	if limit < 1 {
		limit = DefaultPageSize
	}
	last := lastPage(count, limit)
	meta := PageMeta{
		Count: count,
		Page:  page,
		Limit: limit,
		Pages: last,
		Last:  last,
		In:    rowsOnPage,
	}

	if rowsOnPage > 0 {
		meta.From = int64((page-1)*limit) + 1
		meta.To = meta.From + int64(rowsOnPage) - 1
	}

	switch {
	case page > last:
		// пустая страница за последней: назад ведет на последнюю
		meta.Prev = intPtr(last)
	case page > 1:
		meta.Prev = intPtr(page - 1)
	}
	if page < last {
		meta.Next = intPtr(page + 1)
	}
	return meta
}

func lastPage(count int64, limit int) int {
	if count <= 0 {
		return 1
	}
	return int((count + int64(limit) - 1) / int64(limit))
}

func intPtr(i int) *int {
	return &i
}
