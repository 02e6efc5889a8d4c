package page

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-rod/rod"
)

// stableWindow is how long the DOM must stay unchanged before WaitStable
// considers the page settled.
const stableWindow = 300 * time.Millisecond

// RodPage adapts a rod page to the Handle interface. Lookup timeouts are
// uniform; the longer waits take an explicit timeout per call.
type RodPage struct {
	page    *rod.Page
	timeout time.Duration
}

// NewRodPage wraps an already-navigated rod page. timeout bounds every
// element lookup.
func NewRodPage(p *rod.Page, timeout time.Duration) *RodPage {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RodPage{page: p, timeout: timeout}
}

func (p *RodPage) Find(selector string) (Element, error) {
	el, err := p.page.Timeout(p.timeout).Element(selector)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, selector)
	}
	return &rodElement{page: p.page, el: el, timeout: p.timeout}, nil
}

func (p *RodPage) FindAll(selector string) ([]Element, error) {
	els, err := p.page.Timeout(p.timeout).Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("failed to query %q: %w", selector, err)
	}
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &rodElement{page: p.page, el: el, timeout: p.timeout})
	}
	return out, nil
}

func (p *RodPage) FindByText(selector, text string) (Element, error) {
	el, err := p.page.Timeout(p.timeout).ElementR(selector, textPattern(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q", ErrNotFound, selector, text)
	}
	return &rodElement{page: p.page, el: el, timeout: p.timeout}, nil
}

func (p *RodPage) WaitFor(selector string, timeout time.Duration) (Element, error) {
	el, err := p.page.Timeout(timeout).Element(selector)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, selector)
	}
	return &rodElement{page: p.page, el: el, timeout: p.timeout}, nil
}

func (p *RodPage) WaitGone(selector string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		if _, err := p.page.Timeout(300 * time.Millisecond).Element(selector); err != nil {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("element %q still present after %s", selector, timeout)
		}
		time.Sleep(150 * time.Millisecond)
	}
}

func (p *RodPage) WaitStable(timeout time.Duration) error {
	return p.page.Timeout(timeout).WaitDOMStable(stableWindow, 0)
}

func (p *RodPage) Eval(js string, out any) error {
	res, err := p.page.Timeout(p.timeout).Eval(js)
	if err != nil {
		return fmt.Errorf("failed to eval: %w", err)
	}
	if out == nil {
		return nil
	}
	return p.page.MustObjectToJSON(res).Unmarshal(out)
}

type rodElement struct {
	page    *rod.Page
	el      *rod.Element
	timeout time.Duration
}

func (e *rodElement) Find(selector string) (Element, error) {
	el, err := e.el.Timeout(e.timeout).Element(selector)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, selector)
	}
	return &rodElement{page: e.page, el: el, timeout: e.timeout}, nil
}

func (e *rodElement) FindAll(selector string) ([]Element, error) {
	els, err := e.el.Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("failed to query %q: %w", selector, err)
	}
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &rodElement{page: e.page, el: el, timeout: e.timeout})
	}
	return out, nil
}

func (e *rodElement) FindByText(selector, text string) (Element, error) {
	el, err := e.el.Timeout(e.timeout).ElementR(selector, textPattern(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q", ErrNotFound, selector, text)
	}
	return &rodElement{page: e.page, el: el, timeout: e.timeout}, nil
}

func (e *rodElement) Text() (string, error) {
	return e.el.Text()
}

// Click goes through the DOM rather than synthetic mouse input: the
// dashboard re-renders nodes often enough that coordinate-based clicks
// land on stale layouts.
func (e *rodElement) Click() error {
	_, err := e.el.Timeout(e.timeout).Eval(`() => this.click()`)
	if err != nil {
		return fmt.Errorf("failed to click: %w", err)
	}
	return nil
}

func (e *rodElement) Type(text string) error {
	_, err := e.el.Timeout(e.timeout).Eval(`(value) => {
		this.focus();
		this.value = value;
		this.dispatchEvent(new Event('input', {bubbles: true}));
		this.dispatchEvent(new Event('change', {bubbles: true}));
		this.dispatchEvent(new KeyboardEvent('keydown', {key: 'Enter', bubbles: true}));
		this.dispatchEvent(new KeyboardEvent('keyup', {key: 'Enter', bubbles: true}));
	}`, text)
	if err != nil {
		return fmt.Errorf("failed to type: %w", err)
	}
	return nil
}

func (e *rodElement) Attribute(name string) (string, error) {
	v, err := e.el.Attribute(name)
	if err != nil {
		return "", fmt.Errorf("failed to read attribute %q: %w", name, err)
	}
	if v == nil {
		return "", nil
	}
	return *v, nil
}

func (e *rodElement) HasClass(name string) (bool, error) {
	classes, err := e.Attribute("class")
	if err != nil {
		return false, err
	}
	for _, c := range strings.Fields(classes) {
		if c == name {
			return true, nil
		}
	}
	return false, nil
}

func (e *rodElement) ScrollBy(delta float64) error {
	_, err := e.el.Timeout(e.timeout).Eval(`(dy) => { this.scrollTop = this.scrollTop + dy; }`, delta)
	if err != nil {
		return fmt.Errorf("failed to scroll: %w", err)
	}
	return nil
}

func (e *rodElement) ScrollToTop() error {
	_, err := e.el.Timeout(e.timeout).Eval(`() => { this.scrollTop = 0; }`)
	if err != nil {
		return fmt.Errorf("failed to reset scroll: %w", err)
	}
	return nil
}

func (e *rodElement) Height() (float64, error) {
	res, err := e.el.Timeout(e.timeout).Eval(`() => this.clientHeight`)
	if err != nil {
		return 0, fmt.Errorf("failed to read height: %w", err)
	}
	return res.Value.Num(), nil
}

func (e *rodElement) HTML() (string, error) {
	return e.el.HTML()
}

// textPattern builds the regex ElementR uses to match an element by its
// exact trimmed text.
func textPattern(text string) string {
	return `^\s*` + regexp.QuoteMeta(text) + `\s*$`
}
