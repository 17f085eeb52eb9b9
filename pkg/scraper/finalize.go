package scraper

import (
	"path/filepath"

	"fifascraper/pkg/fifaindex"
	"fifascraper/pkg/models"
	"fifascraper/pkg/storage"
	"fifascraper/pkg/textutil"
)

// finalizeResult counts what the saving pass did
type finalizeResult struct {
	Saved         int
	Indexed       int
	Skipped       int
	WriteFailures int
}

// finalize rewrites every player's image references to local paths, writes
// one record per indexable name and then the name index. It runs once per
// run.
func (s *Scraper) finalize(st *state, store *storage.Manager) (finalizeResult, error) {
	var (
		res finalizeResult
		err error
	)
	st.finalizeOnce.Do(func() {
		res, err = s.writeRecords(st.snapshot(), store)
	})
	return res, err
}

func (s *Scraper) writeRecords(players []models.Player, store *storage.Manager) (finalizeResult, error) {
	var res finalizeResult
	index := make(map[string]string)
	log := s.logger.WithField("component", "finalizer")

	for i, p := range players {
		s.progress.Saving(i+1, len(players))

		name := textutil.Normalize(p.Name)
		if !textutil.IsIndexable(name) {
			res.Skipped++
			log.DebugWithFields("Skipping player without usable name", map[string]interface{}{
				"player_id": p.ID,
				"name":      p.Name,
			})
			continue
		}

		record := s.localRecord(p, store)
		if err := store.WriteJSON(store.PlayerPath(name), record); err != nil {
			res.WriteFailures++
			log.WithError(err).ErrorWithFields("Failed to write player record", map[string]interface{}{
				"player_id": p.ID,
				"name":      name,
			})
			continue
		}

		if _, dup := index[name]; dup {
			log.WarnWithFields("Player record overwritten by a later player with the same name", map[string]interface{}{
				"player_id": p.ID,
				"name":      name,
			})
		}
		res.Saved++
		index[name] = storage.IndexEntry(name)
	}

	if err := store.WriteJSON(store.IndexPath(), index); err != nil {
		return res, err
	}
	res.Indexed = len(index)

	log.InfoWithFields("Records saved", map[string]interface{}{
		"saved":          res.Saved,
		"indexed":        res.Indexed,
		"skipped":        res.Skipped,
		"write_failures": res.WriteFailures,
		"files_written":  store.WrittenCount(),
	})
	return res, nil
}

// localRecord points p's images at the downloaded copies. A missing photo
// falls back to the placeholder; a player without a flag keeps an empty one.
func (s *Scraper) localRecord(p models.Player, store *storage.Manager) models.Player {
	photo := store.PhotoPath(p.ID)
	if store.Exists(photo) {
		p.Photo = storage.PublicPhoto(filepath.Base(photo))
	} else {
		p.Photo = storage.PublicPhoto(s.cfg.Output.PlaceholderPhoto)
	}
	p.Club.Logo = storage.PublicLogo(textutil.NormalizeOr(p.Club.Name))
	if flag := fifaindex.Basename(p.Flag); flag != "" {
		p.Flag = storage.PublicFlag(flag)
	} else {
		p.Flag = ""
	}
	return p
}
