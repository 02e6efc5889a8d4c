package page

import (
	"strings"
	"time"
)

// FakePage is a scriptable Handle for tests. Unset hooks behave like an
// empty page: lookups miss, waits return immediately. Touches counts
// every call so tests can assert "no browser interaction happened".
type FakePage struct {
	FindFn       func(selector string) (Element, error)
	FindAllFn    func(selector string) ([]Element, error)
	FindByTextFn func(selector, text string) (Element, error)
	WaitForFn    func(selector string, timeout time.Duration) (Element, error)
	WaitGoneFn   func(selector string, timeout time.Duration) error
	WaitStableFn func(timeout time.Duration) error
	EvalFn       func(js string, out any) error

	Touches int
}

func (p *FakePage) Find(selector string) (Element, error) {
	p.Touches++
	if p.FindFn == nil {
		return nil, ErrNotFound
	}
	return p.FindFn(selector)
}

func (p *FakePage) FindAll(selector string) ([]Element, error) {
	p.Touches++
	if p.FindAllFn == nil {
		return nil, nil
	}
	return p.FindAllFn(selector)
}

func (p *FakePage) FindByText(selector, text string) (Element, error) {
	p.Touches++
	if p.FindByTextFn == nil {
		return nil, ErrNotFound
	}
	return p.FindByTextFn(selector, text)
}

func (p *FakePage) WaitFor(selector string, timeout time.Duration) (Element, error) {
	p.Touches++
	if p.WaitForFn != nil {
		return p.WaitForFn(selector, timeout)
	}
	if p.FindFn == nil {
		return nil, ErrNotFound
	}
	return p.FindFn(selector)
}

func (p *FakePage) WaitGone(selector string, timeout time.Duration) error {
	p.Touches++
	if p.WaitGoneFn == nil {
		return nil
	}
	return p.WaitGoneFn(selector, timeout)
}

func (p *FakePage) WaitStable(timeout time.Duration) error {
	p.Touches++
	if p.WaitStableFn == nil {
		return nil
	}
	return p.WaitStableFn(timeout)
}

func (p *FakePage) Eval(js string, out any) error {
	p.Touches++
	if p.EvalFn == nil {
		return nil
	}
	return p.EvalFn(js, out)
}

// FakeElement is a scriptable Element. Zero values behave like an inert
// empty node.
type FakeElement struct {
	TextValue   string
	Classes     string
	Attrs       map[string]string
	HeightValue float64
	HTMLValue   string

	ClickFn       func() error
	TypeFn        func(text string) error
	ScrollByFn    func(delta float64) error
	ScrollToTopFn func() error

	FindFn       func(selector string) (Element, error)
	FindAllFn    func(selector string) ([]Element, error)
	FindByTextFn func(selector, text string) (Element, error)
}

func (e *FakeElement) Find(selector string) (Element, error) {
	if e.FindFn == nil {
		return nil, ErrNotFound
	}
	return e.FindFn(selector)
}

func (e *FakeElement) FindAll(selector string) ([]Element, error) {
	if e.FindAllFn == nil {
		return nil, nil
	}
	return e.FindAllFn(selector)
}

func (e *FakeElement) FindByText(selector, text string) (Element, error) {
	if e.FindByTextFn == nil {
		return nil, ErrNotFound
	}
	return e.FindByTextFn(selector, text)
}

func (e *FakeElement) Text() (string, error) { return e.TextValue, nil }

func (e *FakeElement) Click() error {
	if e.ClickFn == nil {
		return nil
	}
	return e.ClickFn()
}

func (e *FakeElement) Type(text string) error {
	if e.TypeFn == nil {
		return nil
	}
	return e.TypeFn(text)
}

func (e *FakeElement) Attribute(name string) (string, error) {
	if name == "class" && e.Classes != "" {
		return e.Classes, nil
	}
	return e.Attrs[name], nil
}

func (e *FakeElement) HasClass(name string) (bool, error) {
	for _, c := range strings.Fields(e.Classes) {
		if c == name {
			return true, nil
		}
	}
	return false, nil
}

func (e *FakeElement) ScrollBy(delta float64) error {
	if e.ScrollByFn == nil {
		return nil
	}
	return e.ScrollByFn(delta)
}

func (e *FakeElement) ScrollToTop() error {
	if e.ScrollToTopFn == nil {
		return nil
	}
	return e.ScrollToTopFn()
}

func (e *FakeElement) Height() (float64, error) { return e.HeightValue, nil }

func (e *FakeElement) HTML() (string, error) { return e.HTMLValue, nil }
