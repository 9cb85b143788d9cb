package main

import (
	"bufio"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/term"
)

const pageSize = 20

// pager tracks the cursor of a paged list.
type pager struct {
	total    int
	page     int
	selected int // index within the page
}

func (p *pager) pages() int { return (p.total + pageSize - 1) / pageSize }

// bounds returns the half-open range of the current page.
func (p *pager) bounds() (start, end int) {
	start = p.page * pageSize
	end = start + pageSize
	if end > p.total {
		end = p.total
	}
	return start, end
}

func (p *pager) index() int { return p.page*pageSize + p.selected }

func (p *pager) up() bool {
	if p.selected > 0 {
		p.selected--
		return true
	}
	return false
}

func (p *pager) down() bool {
	start, end := p.bounds()
	if p.selected < end-start-1 {
		p.selected++
		return true
	}
	return false
}

func (p *pager) prev() bool {
	if p.page > 0 {
		p.page--
		p.selected = 0
		return true
	}
	return false
}

func (p *pager) next() bool {
	if p.page < p.pages()-1 {
		p.page++
		p.selected = 0
		return true
	}
	return false
}

// interactiveSelect presents lines 20 per page. ↑/↓ navigate within a page,
// ←/→ change pages, Enter calls onEnter with the selected index, Esc exits.
func interactiveSelect(lines []string, onEnter func(i int)) {
	if len(lines) == 0 {
		return
	}

	if runtime.GOOS == "windows" {
		enableVT()
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Println("(interactive selection not supported on this terminal)")
		return
	}
	defer func() { term.Restore(fd, oldState) }()

	reader := bufio.NewReader(os.Stdin)
	p := &pager{total: len(lines)}

	redraw := func() {
		// Clear screen (ANSI reset to top + clear screen)
		fmt.Print("\033[H\033[2J")
		start, end := p.bounds()
		for i := start; i < end; i++ {
			prefix := "  "
			if i-start == p.selected {
				prefix = "> "
			}
			fmt.Print(prefix + lines[i] + "\r\n")
		}
		fmt.Printf("(↑/↓ navigate, ←/→ page, Enter details, Esc quit)  Page %d/%d\r\n", p.page+1, p.pages())
	}

	show := func() bool {
		term.Restore(fd, oldState) // restore cooked mode before rendering details
		fmt.Println()
		onEnter(p.index())

		// Wait for user acknowledgement before returning to list
		fmt.Print("\n(press Enter to return)")
		_, _ = bufio.NewReader(os.Stdin).ReadBytes('\n')

		oldState, err = term.MakeRaw(fd)
		if err != nil {
			return false
		}
		if runtime.GOOS == "windows" {
			enableVT()
		}
		reader = bufio.NewReader(os.Stdin)
		redraw()
		return true
	}

	redraw()

	for {
		b1, err := reader.ReadByte()
		if err != nil {
			return
		}

		// Windows console arrow sequences (0 or 224 prefix)
		if b1 == 0 || b1 == 224 {
			b2, _ := reader.ReadByte()
			moved := false
			switch b2 {
			case 72:
				moved = p.up()
			case 80:
				moved = p.down()
			case 75:
				moved = p.prev()
			case 77:
				moved = p.next()
			}
			if moved {
				redraw()
			}
			continue
		}

		switch b1 {
		case 27: // ESC or ANSI sequence
			if reader.Buffered() == 0 {
				fmt.Print("\r\n")
				return
			}
			b2, _ := reader.ReadByte()
			if b2 != '[' || reader.Buffered() == 0 {
				continue
			}
			b3, _ := reader.ReadByte()
			moved := false
			switch b3 {
			case 'A':
				moved = p.up()
			case 'B':
				moved = p.down()
			case 'D':
				moved = p.prev()
			case 'C':
				moved = p.next()
			}
			if moved {
				redraw()
			}
		case '\r', '\n':
			if !show() {
				return
			}
		case 3: // Ctrl-C
			fmt.Print("\r\n")
			return
		}
	}
}
