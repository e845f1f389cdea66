package orgmode

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/harrisonrobin/tasktrack/pkg/model"
)

var (
	headlineRegex = regexp.MustCompile(`^\*+\s+(TODO|NEXT|DONE|CANCELLED)\b\s*(?:\[#([A-Z])\])?\s*(.*?)(?:\s+(:([\w@]+:)+))?\s*$`)
	deadlineRegex = regexp.MustCompile(`DEADLINE:\s+<(\d{4}-\d{2}-\d{2})(?:\s+[A-Za-z]{2,3})?(?:\s+(\d{2}:\d{2}))?[^>]*>`)
)

// priorityCookies maps [#A]..[#C] onto the 1..5 scale.
var priorityCookies = map[string]int{
	"A": 5,
	"B": 3,
	"C": 1,
}

const defaultPriority = 2

// ParseFile parses one Org-mode file.
func ParseFile(filePath string) ([]model.Task, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Parse(file)
}

// ParseFiles parses multiple Org-mode files and returns a slice of tasks.
func ParseFiles(filePaths []string) ([]model.Task, error) {
	var allTasks []model.Task
	for _, filePath := range filePaths {
		tasks, err := ParseFile(filePath)
		if err != nil {
			return nil, err
		}
		allTasks = append(allTasks, tasks...)
	}
	return allTasks, nil
}

// Parse turns TODO-keyword headlines into import drafts. Body lines of a
// headline become its description; a DEADLINE stamp becomes the due date.
func Parse(r io.Reader) ([]model.Task, error) {
	scanner := bufio.NewScanner(r)
	var tasks []model.Task
	var current *model.Task
	var body []string

	flush := func() {
		if current != nil && current.Title != "" {
			current.Description = strings.TrimSpace(strings.Join(body, "\n"))
			tasks = append(tasks, *current)
		}
		current = nil
		body = nil
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "*") {
			flush()
			matches := headlineRegex.FindStringSubmatch(line)
			if matches == nil {
				continue
			}
			current = &model.Task{
				Title:    strings.TrimSpace(matches[3]),
				Priority: defaultPriority,
				Status:   keywordStatus(matches[1]),
				Tags:     []string{},
			}
			if p, ok := priorityCookies[matches[2]]; ok {
				current.Priority = p
			}
			if matches[4] != "" {
				current.Tags = strings.Split(strings.Trim(matches[4], ":"), ":")
			}
			continue
		}

		if current == nil {
			continue
		}
		if matches := deadlineRegex.FindStringSubmatch(line); len(matches) > 0 {
			if due, ok := parseDeadline(matches[1], matches[2]); ok {
				current.DueDate = &due
			}
			continue
		}
		if line == "" || strings.HasPrefix(line, ":") {
			// property drawers
			continue
		}
		body = append(body, line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

func keywordStatus(keyword string) model.Status {
	switch keyword {
	case "DONE":
		return model.StatusCompleted
	case "CANCELLED":
		return model.StatusCancelled
	case "NEXT":
		return model.StatusInProgress
	default:
		return model.StatusPending
	}
}

func parseDeadline(day, clock string) (time.Time, bool) {
	if clock == "" {
		t, err := time.ParseInLocation("2006-01-02", day, time.Local)
		return t, err == nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", day+" "+clock, time.Local)
	return t, err == nil
}

// FilterTasks keeps the tasks carrying tag.
func FilterTasks(tasks []model.Task, tag string) []model.Task {
	var filteredTasks []model.Task
	for _, task := range tasks {
		for _, t := range task.Tags {
			if t == tag {
				filteredTasks = append(filteredTasks, task)
				break
			}
		}
	}
	return filteredTasks
}
