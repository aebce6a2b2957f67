package recipe

import "errors"

// Domain errors for recipe drafts and links

var (
	ErrEmptyTitle        = errors.New("recipe title must not be empty")
	ErrNoSections        = errors.New("recipe content must have at least one section")
	ErrNoSteps           = errors.New("recipe must have at least one steps section with steps")
	ErrInvalidDifficulty = errors.New("difficulty must be beginner, intermediate or advanced")
	ErrInvalidMinutes    = errors.New("estimated minutes must be between 5 and 45")

	ErrInvalidContextType = errors.New("context type must be mission or module")
)
