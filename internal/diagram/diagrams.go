package diagram

// Diagram is a named Mermaid source.
type Diagram struct {
	Name   string
	Source string
}

// Builtin are the diagrams used in the write-up. title_diagram is also the
// first frame of the title animation.
var Builtin = []Diagram{
	{
		Name: "title_diagram",
		Source: `
graph TD
    style ClinicalOps_AI_Agent fill:#f9f9f9,stroke:#333,stroke-width:2px

    subgraph ClinicalOps_AI_Agent [ClinicalOps AI Agent]
        direction TB

        A[Clinical Trial Data CSV] -->|Ingest| B(Data Processing)
        C[User Query] -->|Keywords| D{Intent Routing}

        B --> E[Visualization Module]
        D -->|Intent| E

        E -->|Generate| F[PNG Charts]
        F -->|Report| G[Safety Insights]
    end
`,
	},
	{
		Name: "architecture",
		Source: `
flowchart LR
    subgraph Data_Layer [Data Layer]
        CSV[(Clinical Data CSV)]
    end

    subgraph Intelligence_Layer [Intelligence Layer]
        Agent[ClinicalOps Agent]
        Router[Keyword Router]
        Renderer[Chart Renderer]
    end

    subgraph Presentation_Layer [Presentation Layer]
        CLI[Command Line Interface]
        Charts[PNG Visualizations]
    end

    CSV --> Agent
    Agent --> Router
    Router --> Renderer
    Renderer --> Charts
    CLI --> Agent

    style Data_Layer fill:#f5f5f5,stroke:#333,stroke-dasharray: 5 5
    style Intelligence_Layer fill:#e3f2fd,stroke:#1565c0
    style Presentation_Layer fill:#fff3e0,stroke:#e65100
`,
	},
}
