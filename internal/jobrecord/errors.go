package jobrecord

import "errors"

var (
	errEmptyTitle                = errors.New("title is empty")
	errNoCompanyOrURL            = errors.New("company is empty and no canonical_url is set")
	errScoreOrder                = errors.New("stage1_score must be non-negative when stage2_score is present")
	errStage2WithoutStage1Status = errors.New("stage2_score present but status precedes stage1_scored")
	errTimestampOrder            = errors.New("timestamps out of order: scraped_at <= stage1_at <= stage2_at <= processed_at")
)
