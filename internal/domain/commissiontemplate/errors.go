package commissiontemplate

import "errors"

var ErrTemplateNotFound = errors.New("commission template not found")
