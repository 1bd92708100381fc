// Package seed holds the built-in category catalogue and sample questions.
// Only two categories ship with questions; the others start empty.
package seed

import "quizcoach/internal/domain"

// Categories returns the catalogue in display order.
func Categories() []domain.Category {
	return []domain.Category{
		{ID: "programming-basics", Name: "Programming Basics", Description: "Fundamentals of coding and programming concepts", Color: "from-purple-500 to-blue-500"},
		{ID: "algorithms", Name: "Algorithms & Data Structures", Description: "Sorting, searching, trees, graphs, and complexity", Color: "from-blue-500 to-cyan-500"},
		{ID: "computer-architecture", Name: "Computer Architecture", Description: "CPU design, memory systems, and hardware concepts", Color: "from-cyan-500 to-green-500"},
		{ID: "databases", Name: "Database Systems", Description: "SQL, NoSQL, database design and optimization", Color: "from-green-500 to-purple-500"},
		{ID: "networking", Name: "Networking", Description: "Network protocols, TCP/IP, and distributed systems", Color: "from-purple-500 to-pink-500"},
		{ID: "cybersecurity", Name: "Cybersecurity", Description: "Security principles, cryptography, and threat analysis", Color: "from-pink-500 to-red-500"},
		{ID: "operating-systems", Name: "Operating Systems", Description: "Process management, memory, and system calls", Color: "from-red-500 to-orange-500"},
		{ID: "cs-history", Name: "CS History & Pioneers", Description: "Timeline of computing milestones and famous figures", Color: "from-orange-500 to-yellow-500"},
	}
}

// Questions returns the sample questions keyed by category id.
func Questions() map[string][]domain.Question {
	return map[string][]domain.Question{
		"programming-basics": {
			{
				ID:            "pb-1",
				CategoryID:    "programming-basics",
				Text:          "Which of the following is NOT a primitive data type in most programming languages?",
				Options:       []string{"Integer", "Boolean", "String", "Array"},
				CorrectAnswer: 3,
				Explanation:   "Array is a composite data type that holds multiple values, while Integer, Boolean, and String are primitive types that hold single values.",
				Difficulty:    "medium",
			},
			{
				ID:            "pb-2",
				CategoryID:    "programming-basics",
				Text:          "What does 'DRY' principle stand for in programming?",
				Options:       []string{"Don't Repeat Yourself", "Data Requires Yielding", "Direct Resource Yielding", "Dynamic Resource Yielding"},
				CorrectAnswer: 0,
				Explanation:   "DRY stands for 'Don't Repeat Yourself', a principle that encourages reducing repetition in code by abstracting common functionality.",
				Difficulty:    "medium",
			},
			{
				ID:            "pb-3",
				CategoryID:    "programming-basics",
				Text:          "Which of these is the correct way to declare a constant in most C-style languages?",
				Options:       []string{"var PI = 3.14", "const PI = 3.14", "let PI = 3.14", "constant PI = 3.14"},
				CorrectAnswer: 1,
				Explanation:   "The 'const' keyword is used to declare constants in most C-style languages like JavaScript, C++, and others.",
				Difficulty:    "medium",
			},
		},
		"algorithms": {
			{
				ID:            "algo-1",
				CategoryID:    "algorithms",
				Text:          "What is the time complexity of binary search?",
				Options:       []string{"O(n)", "O(log n)", "O(n²)", "O(1)"},
				CorrectAnswer: 1,
				Explanation:   "Binary search has O(log n) time complexity because it eliminates half of the remaining elements in each step.",
				Difficulty:    "medium",
			},
			{
				ID:            "algo-2",
				CategoryID:    "algorithms",
				Text:          "Which sorting algorithm has the best average-case time complexity?",
				Options:       []string{"Bubble Sort", "Selection Sort", "Merge Sort", "Insertion Sort"},
				CorrectAnswer: 2,
				Explanation:   "Merge Sort has O(n log n) time complexity in all cases (best, average, and worst), making it consistently efficient.",
				Difficulty:    "medium",
			},
			{
				ID:            "algo-3",
				CategoryID:    "algorithms",
				Text:          "What data structure uses LIFO (Last In, First Out) principle?",
				Options:       []string{"Queue", "Stack", "Array", "Linked List"},
				CorrectAnswer: 1,
				Explanation:   "Stack follows LIFO principle where the last element added is the first one to be removed.",
				Difficulty:    "medium",
			},
		},
	}
}
