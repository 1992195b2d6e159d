package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/stumpvision/crickapi/models"
	"github.com/stumpvision/crickapi/store"
)

// UploadVideo stores uploaded match footage under the video directory and
// records its path and probed duration on the match.
func (h *Handler) UploadVideo(c echo.Context) error {
	matchID, err := pathID(c, "matchID")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	exists, err := h.db.NewSelect().Model((*models.Match)(nil)).
		Where("m.id = ?", matchID).Exists(ctx)
	if err != nil {
		return httpError(err)
	}
	if !exists {
		return echo.NewHTTPError(http.StatusNotFound, "match not found")
	}

	fh, err := c.FormFile("video")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing video file")
	}

	ext := filepath.Ext(fh.Filename)
	if ext == "" {
		ext = ".mp4"
	}
	name := uuid.NewString() + ext
	dst := filepath.Join(h.videos, name)

	src, err := fh.Open()
	if err != nil {
		return httpError(err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return httpError(err)
	}
	defer out.Close()
	if _, err := io.Copy(out, src); err != nil {
		os.Remove(dst)
		return httpError(err)
	}

	// Probe failures are tolerated; the footage is still usable without a
	// known duration.
	var duration *float64
	if secs, err := h.clipper.Duration(ctx, dst); err != nil {
		zap.L().Warn("probe uploaded video", zap.String("file", name), zap.Error(err))
	} else {
		duration = &secs
	}

	_, err = h.db.NewUpdate().Model((*models.Match)(nil)).
		Set("video_path = ?", name).
		Set("video_duration = ?", duration).
		Set("updated_at = CURRENT_TIMESTAMP").
		Where("id = ?", matchID).
		Exec(ctx)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"videoPath":     name,
		"videoDuration": duration,
		"message":       "video uploaded",
	})
}

// StreamVideo serves a stored video file. echo's File handles range requests,
// which the review player needs for seeking.
func (h *Handler) StreamVideo(c echo.Context) error {
	name := filepath.Base(c.Param("file"))
	if name == "." || name == "/" || strings.HasPrefix(name, ".") {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid file name")
	}
	return c.File(filepath.Join(h.videos, name))
}

// CreateClip persists clip metadata and then cuts the file with ffmpeg. The
// metadata survives even when the cut fails, so a failed clip can be re-cut.
func (h *Handler) CreateClip(c echo.Context) error {
	var clip models.VideoClip
	if err := c.Bind(&clip); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	clip.ID = 0
	if clip.MatchID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "matchID is required")
	}
	if clip.StartTime < 0 || clip.EndTime <= clip.StartTime {
		return echo.NewHTTPError(http.StatusBadRequest, "endTime must be after startTime")
	}
	if clip.Title == "" {
		clip.Title = fmt.Sprintf("Clip %.0fs-%.0fs", clip.StartTime, clip.EndTime)
	}
	if clip.ClipType == "" {
		clip.ClipType = "Custom"
	}

	ctx := c.Request().Context()
	var match models.Match
	if err := h.db.NewSelect().Model(&match).Where("m.id = ?", clip.MatchID).Scan(ctx); err != nil {
		return httpError(err)
	}
	if match.VideoPath == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "match has no video")
	}

	if _, err := h.db.NewInsert().Model(&clip).Exec(ctx); err != nil {
		return httpError(err)
	}

	name := uuid.NewString() + ".mp4"
	src := filepath.Join(h.videos, *match.VideoPath)
	if err := h.clipper.Cut(ctx, src, filepath.Join(h.videos, name), clip.StartTime, clip.EndTime); err != nil {
		zap.L().Error("cut clip", zap.Int("clip", clip.ID), zap.Error(err))
		return httpError(fmt.Errorf("%w: %v", store.ErrDependency, err))
	}

	clip.FilePath = &name
	if _, err := h.db.NewUpdate().Model(&clip).Column("file_path").WherePK().Exec(ctx); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, clip)
}

// Clips lists a match's clips, playlist members first in their sort order.
func (h *Handler) Clips(c echo.Context) error {
	matchID, err := pathID(c, "matchID")
	if err != nil {
		return err
	}

	clips := []models.VideoClip{}
	err = h.db.NewSelect().Model(&clips).
		Where("vc.match_id = ?", matchID).
		Order("vc.sort_order", "vc.created_at").
		Scan(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, clips)
}

// DeleteClip removes a clip's row and its cut file if one was produced.
func (h *Handler) DeleteClip(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	var clip models.VideoClip
	if err := h.db.NewSelect().Model(&clip).Where("vc.id = ?", id).Scan(ctx); err != nil {
		return httpError(err)
	}
	if _, err := h.db.NewDelete().Model(&clip).WherePK().Exec(ctx); err != nil {
		return httpError(err)
	}
	if clip.FilePath != nil {
		if err := os.Remove(filepath.Join(h.videos, *clip.FilePath)); err != nil && !os.IsNotExist(err) {
			zap.L().Warn("remove clip file", zap.String("file", *clip.FilePath), zap.Error(err))
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "clip deleted"})
}

// CreatePlaylist creates an empty playlist.
func (h *Handler) CreatePlaylist(c echo.Context) error {
	var pl models.Playlist
	if err := c.Bind(&pl); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	pl.ID = 0
	pl.Name = strings.TrimSpace(pl.Name)
	if pl.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	if _, err := h.db.NewInsert().Model(&pl).Exec(c.Request().Context()); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, pl)
}

// Playlists lists playlists, optionally scoped to one match by query param.
func (h *Handler) Playlists(c echo.Context) error {
	pls := []models.Playlist{}
	q := h.db.NewSelect().Model(&pls).Order("pl.created_at DESC")
	if raw := c.QueryParam("matchID"); raw != "" {
		matchID, err := strconv.Atoi(raw)
		if err != nil || matchID <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid matchID")
		}
		q = q.Where("pl.match_id = ?", matchID)
	}
	if err := q.Scan(c.Request().Context()); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pls)
}

type playlistAssignment struct {
	PlaylistID *int `json:"playlistID"`
	SortOrder  int  `json:"sortOrder"`
}

// AssignClip moves a clip into a playlist (or out, with a null playlistID)
// and sets its position.
func (h *Handler) AssignClip(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req playlistAssignment
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.db.NewUpdate().Model((*models.VideoClip)(nil)).
		Set("playlist_id = ?", req.PlaylistID).
		Set("sort_order = ?", req.SortOrder).
		Where("id = ?", id).
		Exec(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "clip not found")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "clip assigned"})
}

type tagRequest struct {
	Tags []string `json:"tags"`
}

// TagDelivery appends tags to a delivery, skipping duplicates.
func (h *Handler) TagDelivery(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req tagRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(req.Tags) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "tags are required")
	}

	ctx := c.Request().Context()
	d, err := h.store.GetDelivery(ctx, id)
	if err != nil {
		return httpError(err)
	}

	merged := append([]string{}, d.Tags...)
	have := map[string]bool{}
	for _, t := range merged {
		have[t] = true
	}
	for _, t := range req.Tags {
		t = strings.TrimSpace(t)
		if t != "" && !have[t] {
			have[t] = true
			merged = append(merged, t)
		}
	}

	patch := store.DeliveryPatch{Tags: &merged}
	if err := h.store.UpdateDelivery(ctx, id, &patch); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"tags": merged})
}

type autoClipRequest struct {
	ClipType   string  `json:"clipType"`
	PreBuffer  float64 `json:"preBuffer"`
	PostBuffer float64 `json:"postBuffer"`
}

// AutoClips generates clip metadata for every wicket, boundary or highlight
// delivery of a match that has a video timestamp. Files are not cut up front;
// each generated clip plays from the source via its time window.
func (h *Handler) AutoClips(c echo.Context) error {
	matchID, err := pathID(c, "matchID")
	if err != nil {
		return err
	}
	var req autoClipRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.PreBuffer <= 0 {
		req.PreBuffer = 5
	}
	if req.PostBuffer <= 0 {
		req.PostBuffer = 10
	}

	f := store.DeliveryFilter{MatchID: &matchID}
	switch req.ClipType {
	case "Wickets":
		f.WicketsOnly = true
	case "Boundaries":
		f.BoundariesOnly = true
	case "Highlights":
		f.HighlightsOnly = true
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "clipType must be Wickets, Boundaries or Highlights")
	}

	ctx := c.Request().Context()
	ds, err := h.store.FilterDeliveries(ctx, &f)
	if err != nil {
		return httpError(err)
	}

	clips := []models.VideoClip{}
	for _, d := range ds {
		if d.VideoTimestampStart == nil {
			continue
		}
		start := *d.VideoTimestampStart - req.PreBuffer
		if start < 0 {
			start = 0
		}
		end := *d.VideoTimestampStart + req.PostBuffer
		if d.VideoTimestampEnd != nil {
			end = *d.VideoTimestampEnd + req.PostBuffer
		}
		clips = append(clips, models.VideoClip{
			MatchID:   matchID,
			Title:     fmt.Sprintf("%s %d.%d", req.ClipType, d.OverNumber, d.BallNumber),
			StartTime: start,
			EndTime:   end,
			ClipType:  req.ClipType,
			Tags:      d.Tags,
		})
	}
	if len(clips) == 0 {
		return c.JSON(http.StatusOK, map[string]interface{}{"created": 0, "clips": clips})
	}

	if _, err := h.db.NewInsert().Model(&clips).Exec(ctx); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"created": len(clips), "clips": clips})
}
