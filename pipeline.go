package pokemap

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"github.com/bodgit/pokemap/catalog"
	"github.com/bodgit/pokemap/export"
	"github.com/bodgit/pokemap/mapdata"
)

const (
	indexWorkers  = 4
	thumbnailSize = 128
)

var errCancelled = errors.New("pokemap: index cancelled")

func (p *Pokemap) findMaps(ctx context.Context) (<-chan mapdata.ID, <-chan error, error) {
	out := make(chan mapdata.ID)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for _, id := range p.IDs() {
			select {
			case out <- id:
			case <-ctx.Done():
				errc <- errCancelled
				return
			}
		}
	}()
	return out, errc, nil
}

func (p *Pokemap) record(w *world, id mapdata.ID) (*catalog.Record, error) {
	m, err := w.Map(id)
	if err != nil {
		return nil, err
	}

	r := &catalog.Record{
		ID:          id,
		Header:      m.Header,
		Width:       m.Width,
		Height:      m.Height,
		Label:       m.Label,
		Connections: m.Connections,
	}

	if r.Name, err = p.Name(m); err != nil {
		p.logger.Printf("No name for map %s: %v\n", id, err)
	}

	dst, err := p.renderWith(w, id, m)
	if err != nil {
		p.logger.Printf("No thumbnail for map %s: %v\n", id, err)
		return r, nil
	}

	b := new(bytes.Buffer)
	if err := export.Encode(b, export.Thumbnail(dst, thumbnailSize), export.Options{Colors: export.MaxColors}); err != nil {
		return nil, err
	}
	r.Thumbnail = b.Bytes()

	return r, nil
}

func (p *Pokemap) mapWorker(ctx context.Context, in <-chan mapdata.ID, out chan<- *catalog.Record, wg *sync.WaitGroup) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer wg.Done()
		defer close(errc)

		// Each worker has its own cache so nothing is shared
		w := p.newWorld()

		for id := range in {
			r, err := p.record(w, id)
			if err != nil {
				p.logger.Printf("Skipping map %s: %v\n", id, err)
				continue
			}

			select {
			case out <- r:
			case <-ctx.Done():
				errc <- errCancelled
				return
			}
		}
	}()
	return errc, nil
}

func catalogWriter(cancel context.CancelFunc, c *catalog.Catalog, in <-chan *catalog.Record) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for r := range in {
			if err := c.Add(r); err != nil {
				errc <- err
				cancel()
				return
			}
		}
	}()
	return errc, nil
}

// waitForPipeline drains every stage so the error that caused a
// cancellation wins over the cancellations themselves
func waitForPipeline(errs ...<-chan error) error {
	var first error
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil && (first == nil || first == errCancelled) {
			first = err
		}
	}
	return first
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Index replaces the contents of c with every map in the image. Maps that
// fail to decode are logged and left out.
func (p *Pokemap) Index(c *catalog.Catalog) error {
	if err := c.Reset(); err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	ids, errc, err := p.findMaps(ctx)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	records := make(chan *catalog.Record)

	var wg sync.WaitGroup
	for i := 0; i < indexWorkers; i++ {
		wg.Add(1)
		errc, err := p.mapWorker(ctx, ids, records, &wg)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}
	go func() {
		wg.Wait()
		close(records)
	}()

	errc, err = catalogWriter(cancelFunc, c, records)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	return waitForPipeline(errcList...)
}
